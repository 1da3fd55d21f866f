package generate

import "testing"

func TestSanitizeMarkupStripsBold(t *testing.T) {
	item := map[string]any{
		"question": "Which is **not** true?",
		"options":  []any{"**bold** choice", "plain", 3},
		"nested": map[string]any{
			"explanation": "See the <u>underlined</u> **part**.",
		},
	}

	out := SanitizeMarkup(item)
	if out["question"] != "Which is not true?" {
		t.Fatalf("question = %q", out["question"])
	}
	opts := out["options"].([]any)
	if opts[0] != "bold choice" || opts[1] != "plain" {
		t.Fatalf("options = %v", opts)
	}
	if opts[2] != 3 {
		t.Fatalf("non-string option altered: %v", opts[2])
	}
	nested := out["nested"].(map[string]any)
	if nested["explanation"] != "See the <u>underlined</u> part." {
		t.Fatalf("underline tag lost: %q", nested["explanation"])
	}
}
