package itemspec

import (
	"errors"
	"testing"
)

func TestSplitABOption(t *testing.T) {
	a, b := splitABOption("(A) flexible - (B) resist")
	if a != "flexible" || b != "resist" {
		t.Errorf("got %q, %q", a, b)
	}
	a, b = splitABOption("curious – cautious")
	if a != "curious" || b != "cautious" {
		t.Errorf("dash split: got %q, %q", a, b)
	}
	if a, b = splitABOption("no separator here"); a != "" || b != "" {
		t.Errorf("unsplittable: got %q, %q", a, b)
	}
}

func validRC40Raw() map[string]any {
	return map[string]any{
		"question":         "Which best completes the summary of the passage?",
		"passage":          "A long passage about habits and change.",
		"summary_template": "People who build (A) routines find change (B).",
		"options":          []any{"(A) flexible - (B) easier", "(A) rigid - (B) harder", "(A) random - (B) slower", "(A) shared - (B) louder", "(A) strict - (B) faster"},
		"correct_answer":   "2",
		"explanation":      "The passage argues rigidity makes change harder.",
	}
}

func TestRC40NormalizeRecoversSummaryAB(t *testing.T) {
	s := newRC40().(*rc40Spec)
	got, err := s.Normalize(validRC40Raw())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["summary_A"] != "rigid" {
		t.Errorf("summary_A = %v", got["summary_A"])
	}
	if got["summary_B"] != "harder" {
		t.Errorf("summary_B = %v", got["summary_B"])
	}
}

func TestRC40NormalizeIncompleteTriggersRegen(t *testing.T) {
	s := newRC40()
	raw := validRC40Raw()
	raw["options"] = []any{"one", "two"}
	_, err := s.Normalize(raw)
	if !errors.Is(err, ErrIncompleteOutput) {
		t.Fatalf("err = %v, want ErrIncompleteOutput", err)
	}

	raw = validRC40Raw()
	delete(raw, "summary_template")
	if _, err := s.Normalize(raw); !errors.Is(err, ErrIncompleteOutput) {
		t.Fatalf("missing template: err = %v", err)
	}
}

func TestRC40ValidateDistinctOptions(t *testing.T) {
	s := newRC40()
	item, err := s.Normalize(validRC40Raw())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if err := s.Validate(item); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	opts := TidyOptions(item["options"])
	opts[1] = opts[0]
	item["options"] = opts
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for duplicate options")
	}
}
