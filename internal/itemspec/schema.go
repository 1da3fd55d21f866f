package itemspec

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/itemforge/internal/llm"
)

// Structural schemas shared by the specification families. Field-level
// semantics (answer coercion, marker counts, stem wording) stay in Go;
// the schema layer catches shape problems early with one uniform error.

var mcqSchema = &llm.Schema{
	Name:        "mcq-item",
	Description: "Five-option reading item",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":    map[string]any{"type": "string"},
			"passage":     map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array"},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []any{"question", "passage", "options", "correct_answer", "explanation"},
	},
}

var orderSchema = &llm.Schema{
	Name:        "order-item",
	Description: "Paragraph-ordering item with intro and three parts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":        map[string]any{"type": "string"},
			"intro_paragraph": map[string]any{"type": "string"},
			"passage_parts":   map[string]any{"type": "object"},
			"options":         map[string]any{"type": "array"},
			"explanation":     map[string]any{"type": "string"},
		},
		"required": []any{"question", "intro_paragraph", "passage_parts", "options", "correct_answer", "explanation"},
	},
}

var insertionSchema = &llm.Schema{
	Name:        "insertion-item",
	Description: "Sentence-insertion item with a given sentence and marked passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":       map[string]any{"type": "string"},
			"given_sentence": map[string]any{"type": "string"},
			"passage":        map[string]any{"type": "string"},
			"options":        map[string]any{"type": "array"},
			"explanation":    map[string]any{"type": "string"},
		},
		"required": []any{"question", "given_sentence", "passage", "options", "correct_answer", "explanation"},
	},
}

var summarySchema = &llm.Schema{
	Name:        "summary-item",
	Description: "Summary-completion item with an (A)/(B) template",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question":         map[string]any{"type": "string"},
			"passage":          map[string]any{"type": "string"},
			"summary_template": map[string]any{"type": "string"},
			"options":          map[string]any{"type": "array"},
			"explanation":      map[string]any{"type": "string"},
		},
		"required": []any{"question", "passage", "summary_template", "options", "correct_answer", "explanation"},
	},
}

var setSchema = &llm.Schema{
	Name:        "set-item",
	Description: "Multi-question set sharing one passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"set_instruction": map[string]any{"type": "string"},
			"questions":       map[string]any{"type": "array"},
		},
		"required": []any{"questions"},
	},
}

var longSetSchema = &llm.Schema{
	Name:        "long-set-item",
	Description: "Long reading set with lettered passage parts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"item_type":       map[string]any{"type": "string"},
			"set_instruction": map[string]any{"type": "string"},
			"passage_parts":   map[string]any{"type": "object"},
			"questions":       map[string]any{"type": "array"},
		},
		"required": []any{"item_type", "set_instruction", "passage_parts", "questions"},
	},
}

var listeningSchema = &llm.Schema{
	Name:        "listening-item",
	Description: "Listening item with a transcript",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transcript":  map[string]any{"type": "string"},
			"question":    map[string]any{"type": "string"},
			"options":     map[string]any{"type": "array"},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []any{"transcript", "question", "options", "correct_answer"},
	},
}

// validateSchema marshals the item and runs it through the compiled
// schema cache.
func validateSchema(schema *llm.Schema, item map[string]any) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	return llm.ValidateJSON(schema, raw)
}
