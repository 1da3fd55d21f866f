package itemspec

import (
	"strings"
	"testing"
)

func TestReplaceBlankFuzzy(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog."
	if got := replaceBlankFuzzy(text, "brown fox"); !strings.Contains(got, BlankMarker) {
		t.Errorf("exact match failed: %q", got)
	}
	if got := replaceBlankFuzzy(text, "Brown  Fox"); !strings.Contains(got, BlankMarker) {
		t.Errorf("loose match failed: %q", got)
	}
	if got := replaceBlankFuzzy(text, "purple cat"); got != "" {
		t.Errorf("missing span should return empty, got %q", got)
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second one? Third!  Fourth.")
	if len(got) != 4 {
		t.Fatalf("got %d sentences: %v", len(got), got)
	}
	if got[1] != "Second one?" {
		t.Errorf("got[1] = %q", got[1])
	}
}

func TestCondenseOption(t *testing.T) {
	if got := condenseOption("a sense of the deep belonging", 2); got != "sense deep" {
		t.Errorf("condenseOption = %q", got)
	}
	if got := condenseOption("persistence: the steady effort", 2); got != "steady effort" {
		t.Errorf("colon tail = %q", got)
	}
}

func TestRC31NormalizeInjectsBlank(t *testing.T) {
	s := newRC31()
	got, err := s.Normalize(map[string]any{
		"question":       "Which best fits the blank in the passage?",
		"passage":        "No marker anywhere in this text.",
		"options":        []any{"grit", "doubt", "haste", "pride", "calm"},
		"correct_answer": "1",
		"explanation":    "x",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !hasVisibleBlank(stringify(got["question"])) {
		t.Errorf("question lacks a blank: %q", got["question"])
	}
}

func TestRC31NormalizeKeepsSingleBlank(t *testing.T) {
	s := newRC31()
	got, _ := s.Normalize(map[string]any{
		"question":       "Fill _____ and also _____ here.",
		"passage":        "p",
		"options":        []any{"a", "b", "c", "d", "e"},
		"correct_answer": "1",
		"explanation":    "x",
	})
	if n := strings.Count(stringify(got["question"]), BlankMarker); n != 1 {
		t.Errorf("blank count = %d, want 1", n)
	}
}

func TestRC31QuotePostprocess(t *testing.T) {
	s := newRC31().(QuoteSpec)
	passageText := "Habits form slowly. Repetition builds endurance over time. Change is hard."
	item, err := s.QuotePostprocess(passageText, map[string]any{
		"question":       blankQuestion,
		"options":        []any{"endurance", "fatigue", "boredom", "interest", "fear"},
		"blank_token":    "endurance",
		"correct_answer": "1",
		"explanation":    "e",
	})
	if err != nil {
		t.Fatalf("QuotePostprocess: %v", err)
	}
	if strings.Count(stringify(item["passage"]), BlankMarker) != 1 {
		t.Fatalf("passage = %q", item["passage"])
	}
	if err := s.QuoteValidate(item); err != nil {
		t.Errorf("QuoteValidate: %v", err)
	}
}

func TestRC31QuotePostprocessRejectsMismatch(t *testing.T) {
	s := newRC31().(QuoteSpec)
	_, err := s.QuotePostprocess("Some passage with endurance inside.", map[string]any{
		"options":        []any{"endurance", "fatigue", "boredom", "interest", "fear"},
		"blank_token":    "endurance",
		"correct_answer": "2",
		"explanation":    "e",
	})
	if err == nil {
		t.Fatal("expected error when correct option differs from blank_token")
	}
}

func TestShrinkSpanToWindow(t *testing.T) {
	passageText := "one two three four five six seven eight nine ten eleven twelve"
	span := passageText + " extra words beyond the passage tail making it far too long to keep"
	got := shrinkSpanToWindow(passageText, span, 6, 18)
	if len(strings.Fields(got)) > 18 {
		t.Errorf("still too long: %q", got)
	}
	if !strings.Contains(passageText, got) {
		t.Errorf("window not in passage: %q", got)
	}
}

func TestRC34QuotePostprocessBansEdgeSentences(t *testing.T) {
	s := newRC34().(*rc34Spec)
	passageText := "Opening statement here. The middle carries the pivot idea clearly. Closing statement here."
	_, err := s.QuotePostprocess(passageText, map[string]any{
		"options":        []any{"Opening statement here", "x1", "x2", "x3", "x4"},
		"blank_text":     "Opening statement here",
		"correct_answer": "1",
		"explanation":    "e",
	})
	if err == nil {
		t.Fatal("expected error for a first-sentence blank")
	}

	item, err := s.QuotePostprocess(passageText, map[string]any{
		"options":        []any{"the pivot idea", "x1", "x2", "x3", "x4"},
		"blank_text":     "the pivot idea",
		"correct_answer": "1",
		"explanation":    "e",
	})
	if err != nil {
		t.Fatalf("middle blank: %v", err)
	}
	if err := s.QuoteValidate(item); err != nil {
		t.Errorf("QuoteValidate: %v", err)
	}
}
