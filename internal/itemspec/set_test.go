package itemspec

import (
	"strings"
	"testing"
)

func TestCleanForEdit(t *testing.T) {
	in := "The storm (a) <u>intensified</u> overnight, and (b) <u>residents</u> fled. Some <u>stayed</u> behind."
	got := cleanForEdit(in)
	if strings.Contains(got, "<u>") || strings.Contains(got, "(a)") {
		t.Fatalf("markers left in %q", got)
	}
	if !strings.Contains(got, "intensified") || !strings.Contains(got, "stayed") {
		t.Errorf("words lost in %q", got)
	}
}

func TestRC4142NormalizeFillsMissingQuestions(t *testing.T) {
	s := newRC4142()
	got, err := s.Normalize(map[string]any{
		"passage": "A long passage.",
		"questions": []any{
			map[string]any{
				"question_number": float64(42),
				"question":        "Which of (a)-(e) is inappropriate?",
				"options":         []any{"(a)", "(b)", "(c)", "(d)", "(e)"},
				"correct_answer":  "3",
				"explanation":     "because",
			},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	qs := setQuestions(got["questions"])
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if questionNumber(qs[0]) != 41 || questionNumber(qs[1]) != 42 {
		t.Errorf("question numbers = %d, %d", questionNumber(qs[0]), questionNumber(qs[1]))
	}
	if qs[0]["question"] != rc41Stem {
		t.Errorf("filled Q41 stem = %v", qs[0]["question"])
	}
	if qs[1]["correct_answer"] != "3" {
		t.Errorf("Q42 answer = %v", qs[1]["correct_answer"])
	}
}

func TestRC4142NormalizePadsOptions(t *testing.T) {
	s := newRC4142()
	got, err := s.Normalize(map[string]any{
		"passage": "p",
		"questions": []any{
			map[string]any{"question_number": float64(41), "question": "t?", "options": []any{"one", "two"}, "correct_answer": "9"},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	q41 := setQuestions(got["questions"])[0]
	opts := TidyOptions(q41["options"])
	if len(opts) != 5 {
		t.Fatalf("options = %v", opts)
	}
	if opts[4] != "Option 5" {
		t.Errorf("pad = %q", opts[4])
	}
	if q41["correct_answer"] != "1" {
		t.Errorf("out-of-range answer should clamp to 1, got %v", q41["correct_answer"])
	}
}

func TestRC4142ValidateNeedsBothNumbers(t *testing.T) {
	s := newRC4142()
	item := map[string]any{
		"set_instruction": rc41Instruction,
		"passage":         "p",
		"questions": []any{
			map[string]any{"question_number": float64(41), "question": "a", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": "1", "explanation": ""},
			map[string]any{"question_number": float64(44), "question": "b", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": "1", "explanation": ""},
		},
	}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error when 42 is missing")
	}
}

func TestRC4142SelfChecksAlwaysEmpty(t *testing.T) {
	sc := newRC4142().(SelfChecker)
	if issues := sc.SelfChecks(map[string]any{}, "anything"); len(issues) != 0 {
		t.Errorf("SelfChecks = %v, want none", issues)
	}
}

func TestRC4345NormalizeShape(t *testing.T) {
	s := newRC4345()
	got, err := s.Normalize(map[string]any{
		"questions": []any{
			map[string]any{"question": "order?", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": 2},
		},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["item_type"] != "RC_SET" {
		t.Errorf("item_type = %v", got["item_type"])
	}
	pp, ok := got["passage_parts"].(map[string]any)
	if !ok || len(pp) != 4 {
		t.Errorf("passage_parts = %v", got["passage_parts"])
	}
	qs := setQuestions(got["questions"])
	if len(qs) != 1 || questionNumber(qs[0]) != 43 {
		t.Fatalf("questions = %v", got["questions"])
	}
	if qs[0]["correct_answer"] != "2" {
		t.Errorf("correct_answer = %v", qs[0]["correct_answer"])
	}
}

func TestRC4345ValidateExplanationRequired(t *testing.T) {
	s := newRC4345()
	item := map[string]any{
		"item_type":       "RC_SET",
		"set_instruction": rc43Instruction,
		"passage_parts":   map[string]any{"A": "a", "B": "b", "C": "c", "D": "d"},
		"questions": []any{
			map[string]any{"question_number": float64(43), "question": "q", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": "1"},
		},
	}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for question without explanation")
	}
}
