package itemspec

import (
	"testing"
)

func TestLCNormalizeStandardShape(t *testing.T) {
	s := newLCStandard()
	got, err := s.Normalize(map[string]any{
		"transcript": "M: Hello. W: Hi there.",
		"question":   " What is the purpose of the call? ",
		"options":    []any{"a", "b", "c", "d", "e"},
		"answer":     "③",
		"rationale":  "the reason",
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got["type"] != "LC_STANDARD" {
		t.Errorf("type = %v", got["type"])
	}
	if got["correct_answer"] != "3" {
		t.Errorf("correct_answer = %v", got["correct_answer"])
	}
	if got["explanation"] != "the reason" {
		t.Errorf("explanation = %v", got["explanation"])
	}
}

func TestLCNormalizeChartShape(t *testing.T) {
	s := newLCStandard()
	got, _ := s.Normalize(map[string]any{
		"transcript": "M: Which class? W: The cheap one.",
		"question":   "Which option will the speakers choose?",
		"options":    []any{"a", "b", "c", "d", "e"},
		"correct_answer": "1",
		"chart_data":     map[string]any{"rows": []any{}},
	})
	if got["type"] != "LC_CHART" {
		t.Errorf("type = %v", got["type"])
	}
}

func TestLCNormalizeSetShape(t *testing.T) {
	s := newLCStandard()
	got, _ := s.Normalize(map[string]any{
		"transcript":  "W: Today I will talk about bees.",
		"instruction": "Listen and answer both questions.",
		"questions": []any{
			map[string]any{"question": "Topic?", "options": []any{"1", "2", "3", "4", "5"}, "answer": "2", "rationale": "r"},
			map[string]any{"question": "Detail?", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": "4", "explanation": "e"},
		},
	})
	if got["type"] != "LC_SET" {
		t.Fatalf("type = %v", got["type"])
	}
	if got["set_instruction"] != "Listen and answer both questions." {
		t.Errorf("set_instruction = %v", got["set_instruction"])
	}
	qs, _ := got["questions"].([]any)
	if len(qs) != 2 {
		t.Fatalf("questions = %v", got["questions"])
	}
	q0 := qs[0].(map[string]any)
	if q0["correct_answer"] != "2" || q0["explanation"] != "r" {
		t.Errorf("q0 = %v", q0)
	}
}

func TestLCValidateSet(t *testing.T) {
	s := newLCStandard()
	item := map[string]any{
		"type":       "LC_SET",
		"transcript": "W: hi",
		"questions": []any{
			map[string]any{"question": "q", "options": []any{"1", "2", "3", "4", "5"}, "correct_answer": "1"},
			map[string]any{"question": "q2", "options": []any{"1", "2", "3"}, "correct_answer": "1"},
		},
	}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for question with 3 options")
	}
}

func TestContainsDecimal(t *testing.T) {
	yes := []string{"costs 8.80 dollars", "$1,234.50 total", "only .5 left", "0.8"}
	for _, s := range yes {
		if !containsDecimal(s) {
			t.Errorf("containsDecimal(%q) = false", s)
		}
	}
	no := []string{"costs 8 dollars", "room 3. Next we", "v1. 2 items", ""}
	for _, s := range no {
		if containsDecimal(s) {
			t.Errorf("containsDecimal(%q) = true", s)
		}
	}
}

func TestLC06ValidateRejectsDecimals(t *testing.T) {
	s := newLC06()
	item := map[string]any{
		"type":           "LC_STANDARD",
		"transcript":     "M: Three shirts at $10 each. W: With the $5 coupon that is $25.",
		"question":       "How much will the man pay?",
		"options":        []any{"$20", "$22.50", "$25", "$28", "$30"},
		"correct_answer": "3",
		"explanation":    "30 minus 5 is 25.",
	}
	if err := s.Validate(item); err == nil {
		t.Fatal("expected error for a decimal option")
	}
	item["options"] = []any{"$20", "$22", "$25", "$28", "$30"}
	if err := s.Validate(item); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
