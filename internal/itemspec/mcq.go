package itemspec

import (
	"fmt"
	"strings"

	"github.com/abhisek/itemforge/internal/prompts"
)

// AnswerIndex coerces a correct_answer value to an option index in
// 1..5. Accepts digits, circled numerals, letter labels, and the exact
// option text.
func AnswerIndex(v any, options []string) (int, error) {
	s := StandardizeAnswer(v)
	if len(s) == 1 && s >= "1" && s <= "5" {
		return int(s[0] - '0'), nil
	}
	target := strings.ToLower(strings.TrimSpace(s))
	for i, o := range options {
		if strings.ToLower(strings.TrimSpace(o)) == target {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("correct_answer %q is not an option number 1-5 or an option text", s)
}

// ValidateMCQ checks the canonical five-option layout: non-empty
// question, passage, and explanation, exactly five non-empty options,
// and an answer resolvable to 1..5.
func ValidateMCQ(item map[string]any) error {
	if err := validateSchema(mcqSchema, item); err != nil {
		return err
	}
	for _, k := range []string{"question", "passage", "explanation"} {
		if strings.TrimSpace(stringify(item[k])) == "" {
			return fmt.Errorf("%s must not be empty", k)
		}
	}
	opts := TidyOptions(item["options"])
	if len(opts) != 5 {
		return fmt.Errorf("options must contain exactly 5 entries, got %d", len(opts))
	}
	if _, err := AnswerIndex(item["correct_answer"], opts); err != nil {
		return err
	}
	return nil
}

// mcqSpec is the shared five-option reading variant. Concrete types
// configure the code, system prompt, optional extra checks, and
// budget.
type mcqSpec struct {
	id     string
	system string
	budget Budget
	extra  func(item map[string]any) error
}

func (s *mcqSpec) ID() string { return s.id }

func (s *mcqSpec) SystemPrompt() string {
	if s.system != "" {
		return s.system
	}
	return "English exam item " + s.id + ". Return ONLY JSON matching the schema. " +
		"Use ONLY the provided passage. " +
		"The field 'correct_answer' MUST be the option number (1-5)."
}

func (s *mcqSpec) BuildPrompt(ctx GenContext) string {
	itemType := ctx.ItemID
	if itemType == "" {
		itemType = s.id
	}
	return prompts.Generate(itemType, orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *mcqSpec) Normalize(raw map[string]any) (map[string]any, error) {
	return CoerceMCQLike(raw), nil
}

func (s *mcqSpec) Validate(item map[string]any) error {
	if err := ValidateMCQ(item); err != nil {
		return err
	}
	if s.extra != nil {
		return s.extra(item)
	}
	return nil
}

func (s *mcqSpec) Budget() Budget {
	if s.budget == (Budget{}) {
		return defaultBudget()
	}
	return s.budget
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
