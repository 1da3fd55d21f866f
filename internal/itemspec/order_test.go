package itemspec

import (
	"strings"
	"testing"
)

func TestNormalizePattern(t *testing.T) {
	cases := map[string]string{
		"(B)-(A)-(C)":   "B-A-C",
		" b > a > c ":   "B-A-C",
		"(C) ~ (B)~(A)": "C-B-A",
		"A-C-B":         "A-C-B",
	}
	for in, want := range cases {
		if got := normalizePattern(in); got != want {
			t.Errorf("normalizePattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePassageToPartsHeaders(t *testing.T) {
	text := "The intro sentence sets the scene for everyone involved.\n" +
		"(A) First part follows the intro with more detail here.\n" +
		"(B) Second part builds on the first with new facts.\n" +
		"(C) Third part wraps up the argument completely now."
	intro, parts := parsePassageToParts(text)
	if !strings.HasPrefix(intro, "The intro sentence") {
		t.Fatalf("intro = %q", intro)
	}
	if parts["(B)"] == "" || !strings.HasPrefix(parts["(B)"], "Second part") {
		t.Errorf("parts[(B)] = %q", parts["(B)"])
	}
}

func TestParsePassageToPartsBlocks(t *testing.T) {
	text := "Opening block here.\n\n(A) Alpha block text.\n\n(B) Beta block text.\n\n(C) Gamma block text."
	intro, parts := parsePassageToParts(text)
	if intro != "Opening block here." {
		t.Errorf("intro = %q", intro)
	}
	if parts["(C)"] != "Gamma block text." {
		t.Errorf("parts[(C)] = %q", parts["(C)"])
	}
}

func validRC36Item() map[string]any {
	return map[string]any{
		"question":        orderStem,
		"intro_paragraph": "Researchers have long wondered how city birds adapt their songs to the constant hum of traffic around them every day.",
		"passage_parts": map[string]any{
			"(A)": "One team recorded sparrows near busy highways and compared their pitch with rural birds of the same species over several seasons.",
			"(B)": "The urban birds sang at noticeably higher frequencies, which carried better over the low rumble of engines below them.",
			"(C)": "These findings suggest that noise pollution acts as a selective pressure shaping animal communication in modern cities.",
		},
		"options":        append([]string(nil), standardOrderOptions...),
		"correct_answer": "2",
		"explanation":    "The recording study comes first, its result second, and the conclusion last.",
	}
}

func TestRC36ValidateAccepts(t *testing.T) {
	s := newRC36()
	if err := s.Validate(validRC36Item()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestRC36ValidateRejectsWrongOptions(t *testing.T) {
	s := newRC36()
	item := validRC36Item()
	item["options"] = []string{"(A)-(B)-(C)", "(B)-(A)-(C)", "(B)-(C)-(A)", "(C)-(A)-(B)", "(C)-(B)-(A)"}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for non-standard options")
	}
}

func TestRC36NormalizeMapsPatternAnswer(t *testing.T) {
	s := newRC36()
	item := validRC36Item()
	item["correct_answer"] = "(B)-(A)-(C)"
	got, err := s.Normalize(item)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["correct_answer"] != "2" {
		t.Errorf("correct_answer = %v, want 2", got["correct_answer"])
	}
}

func TestRC36QuotePostprocessGoldOrder(t *testing.T) {
	s := newRC36().(QuoteSpec)
	raw := map[string]any{
		"intro_paragraph": "Intro paragraph.",
		"passage_parts":   map[string]any{"(A)": "aaa", "(B)": "bbb", "(C)": "ccc"},
		"gold_order":      "(C) - (A) - (B)",
		"explanation":     "because",
	}
	item, err := s.QuotePostprocess("src", raw)
	if err != nil {
		t.Fatalf("QuotePostprocess: %v", err)
	}
	if item["correct_answer"] != "4" {
		t.Errorf("correct_answer = %v, want 4", item["correct_answer"])
	}

	raw["gold_order"] = "(A)-(B)-(C)"
	if _, err := s.QuotePostprocess("src", raw); err == nil {
		t.Fatal("expected error for the trivial order")
	}
}

func TestReorderParagraphs(t *testing.T) {
	got := reorderParagraphs([]string{"pa", "pb", "pc"}, "B-C-A")
	want := []string{"pb", "pc", "pa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("reorderParagraphs = %v, want %v", got, want)
		}
	}
	// partial pattern: unused paragraph is appended
	got = reorderParagraphs([]string{"pa", "pb", "pc"}, "C-A")
	if got[0] != "pc" || got[1] != "pa" || got[2] != "pb" {
		t.Errorf("partial pattern = %v", got)
	}
}

func TestSplitRestIntoThree(t *testing.T) {
	rest := "One sentence. Two sentence. Three sentence. Four sentence."
	parts := splitRestIntoThree(rest)
	if len(parts) != 3 {
		t.Fatalf("got %d parts", len(parts))
	}
	if parts[0] != "One sentence. Two sentence." {
		t.Errorf("parts[0] = %q", parts[0])
	}
	if parts[2] != "Four sentence." {
		t.Errorf("parts[2] = %q", parts[2])
	}
}

func TestRC37NormalizeAutoParsesPassage(t *testing.T) {
	s := newRC37()
	raw := map[string]any{
		"passage": "Intro line here.\n(A) Part alpha text.\n(B) Part beta text.\n(C) Part gamma text.",
		"options": []any{"(A)-(C)-(B)", "(B)-(A)-(C)", "(B)-(C)-(A)", "(C)-(A)-(B)", "(C)-(B)-(A)"},
		"correct_answer": "(B)-(C)-(A)",
		"question":       orderStem,
		"explanation":    "x",
	}
	got, err := s.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["intro_paragraph"] != "Intro line here." {
		t.Errorf("intro_paragraph = %v", got["intro_paragraph"])
	}
	if got["correct_answer"] != "3" {
		t.Errorf("correct_answer = %v, want 3", got["correct_answer"])
	}
}

func TestRC37ValidateDuplicateOptions(t *testing.T) {
	s := newRC37()
	item := validRC36Item()
	item["options"] = []string{"(A)-(C)-(B)", "(a)-(c)-(b)", "(B)-(C)-(A)", "(C)-(A)-(B)", "(C)-(B)-(A)"}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for near-duplicate options")
	}
}
