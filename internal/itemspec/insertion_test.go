package itemspec

import (
	"testing"
)

func TestInsertionAnswer(t *testing.T) {
	cases := map[string]string{
		"③":                 "3",
		"4":                 "4",
		"position ② works":  "2",
		"the answer is 5":   "5",
		"somewhere unknown": "somewhere unknown",
	}
	for in, want := range cases {
		if got := insertionAnswer(in); got != want {
			t.Errorf("insertionAnswer(%q) = %q, want %q", in, got, want)
		}
	}
}

func labeledPassage() string {
	return "Bees navigate by the sun. ( ① ) They also read landmarks. ( ② ) Rain disrupts both cues. " +
		"( ③ ) On overcast days hives stay quiet. ( ④ ) Scouts wait for clearer light. ( ⑤ ) Foraging resumes at dawn."
}

func TestRC38NormalizeAndValidate(t *testing.T) {
	s := newRC38()
	got, err := s.Normalize(map[string]any{
		"question":       insertionStem,
		"given_sentence": "This reliance on sunlight has a cost.",
		"passage":        labeledPassage(),
		"options":        []any{"1", "2", "3", "4", "5"},
		"correct_answer": "②",
		"explanation":    "The sentence bridges navigation and its weakness.",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["correct_answer"] != "2" {
		t.Errorf("correct_answer = %v", got["correct_answer"])
	}
	if !equalStrings(TidyOptions(got["options"]), circledLabels) {
		t.Errorf("options = %v", got["options"])
	}
	if err := s.Validate(got); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestInsertionValidateNeedsGivenSentence(t *testing.T) {
	s := newRC39()
	item, _ := s.Normalize(map[string]any{
		"question":       insertionStem,
		"given_sentence": "x",
		"passage":        labeledPassage(),
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": "2",
		"explanation":    "e",
	})
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for a too-short given sentence")
	}
}

func TestRC35ValidateStemAndLabels(t *testing.T) {
	s := newRC35()
	item := map[string]any{
		"question":       rc35Stem,
		"passage":        "① One. ② Two. ③ Three. ④ Four. ⑤ Five.",
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": "4",
		"explanation":    "Sentence four drifts off topic.",
	}
	if err := s.Validate(item); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	item["question"] = "A different stem?"
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for a changed stem")
	}
}

func TestRC35QuotePostprocess(t *testing.T) {
	s := newRC35().(QuoteSpec)
	item, err := s.QuotePostprocess("src", map[string]any{
		"passage":        "Lead in. ① One. ② Two. ③ Off topic. ④ Four. ⑤ Five. Tail out.",
		"correct_answer": "③",
		"explanation":    "Sentence three ignores the topic.",
	})
	if err != nil {
		t.Fatalf("QuotePostprocess: %v", err)
	}
	if item["correct_answer"] != "3" {
		t.Errorf("correct_answer = %v", item["correct_answer"])
	}
	if err := s.QuoteValidate(item); err != nil {
		t.Errorf("QuoteValidate: %v", err)
	}

	if _, err := s.QuotePostprocess("src", map[string]any{
		"passage":        "Only ① and ② here.",
		"correct_answer": "1",
		"explanation":    "e",
	}); err == nil {
		t.Fatal("expected error for missing labels")
	}
}

func TestCollapseDupWords(t *testing.T) {
	if got := collapseDupWords("CraftingCrafting takes timetime"); got != "Crafting takes time" {
		t.Errorf("collapseDupWords = %q", got)
	}
	if got := collapseDupWords("no duplicates here"); got != "no duplicates here" {
		t.Errorf("unchanged input = %q", got)
	}
}
