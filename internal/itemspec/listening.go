package itemspec

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

// lcStandardSpec covers the listening family. One spec serves all LC
// codes: the prompt manager resolves the concrete template from the
// item id and Normalize sorts the response into the single, chart, or
// set shape.
type lcStandardSpec struct{}

func newLCStandard() Spec { return &lcStandardSpec{} }

func (s *lcStandardSpec) ID() string { return "LC_STANDARD" }

func (s *lcStandardSpec) SystemPrompt() string {
	return "English exam listening item generator. Return ONLY JSON. " +
		"The transcript must be a natural spoken English dialogue or monologue " +
		"with speaker markers (M:/W:) where dialogic. correct_answer is a string digit '1'..'5'."
}

func (s *lcStandardSpec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, s.ID()), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), "")
}

func (s *lcStandardSpec) Normalize(raw map[string]any) (map[string]any, error) {
	transcript := EnsureDialogueNewlines(CoerceTranscript(raw["transcript"]))

	// multi-question responses become an LC_SET
	if qs, ok := raw["questions"].([]any); ok && len(qs) > 0 {
		norm := make([]any, 0, len(qs))
		for _, e := range qs {
			q, ok := e.(map[string]any)
			if !ok {
				continue
			}
			ca := q["correct_answer"]
			if ca == nil {
				ca = q["answer"]
			}
			exp := strings.TrimSpace(stringify(q["explanation"]))
			if exp == "" {
				exp = strings.TrimSpace(stringify(q["rationale"]))
			}
			norm = append(norm, map[string]any{
				"question":       strings.TrimSpace(stringify(q["question"])),
				"options":        TidyOptions(q["options"]),
				"correct_answer": StandardizeAnswer(ca),
				"explanation":    exp,
			})
		}
		instruction := strings.TrimSpace(stringify(raw["set_instruction"]))
		if instruction == "" {
			instruction = strings.TrimSpace(stringify(raw["instruction"]))
		}
		return map[string]any{
			"type":            "LC_SET",
			"set_instruction": instruction,
			"transcript":      transcript,
			"questions":       norm,
		}, nil
	}

	ca := raw["correct_answer"]
	if ca == nil {
		ca = raw["answer"]
	}
	exp := strings.TrimSpace(stringify(raw["explanation"]))
	if exp == "" {
		exp = strings.TrimSpace(stringify(raw["rationale"]))
	}
	out := map[string]any{
		"type":           "LC_STANDARD",
		"transcript":     transcript,
		"question":       strings.TrimSpace(stringify(raw["question"])),
		"options":        TidyOptions(raw["options"]),
		"correct_answer": StandardizeAnswer(ca),
		"explanation":    exp,
	}
	if raw["chart_data"] != nil {
		out["type"] = "LC_CHART"
		out["chart_data"] = raw["chart_data"]
	}
	return out, nil
}

func (s *lcStandardSpec) Validate(item map[string]any) error {
	if stringify(item["type"]) == "LC_SET" {
		if strings.TrimSpace(stringify(item["transcript"])) == "" {
			return fmt.Errorf("transcript is required")
		}
		qs, _ := item["questions"].([]any)
		if len(qs) == 0 {
			return fmt.Errorf("questions must be a non-empty list")
		}
		for i, e := range qs {
			q, ok := e.(map[string]any)
			if !ok {
				return fmt.Errorf("question %d must be an object", i+1)
			}
			if err := validateLCQuestion(q); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
		return nil
	}
	if err := validateSchema(listeningSchema, item); err != nil {
		return err
	}
	if stringify(item["type"]) == "LC_CHART" && item["chart_data"] == nil {
		return fmt.Errorf("chart_data is required")
	}
	return validateLCQuestion(item)
}

func validateLCQuestion(q map[string]any) error {
	if strings.TrimSpace(stringify(q["question"])) == "" {
		return fmt.Errorf("question is required")
	}
	if len(TidyOptions(q["options"])) != 5 {
		return fmt.Errorf("options must have exactly 5 items")
	}
	ca := stringify(q["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be one of '1'..'5'")
	}
	return nil
}

func (s *lcStandardSpec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 12 * time.Second} }

// ---- LC06: payment amount ----

// plainDecimalRE matches "8.8", "123.50" and similar; bareDecimal
// handles ".5" by checking the preceding byte, since RE2 has no
// lookbehind.
var (
	plainDecimalRE = regexp.MustCompile(`\d+\.\d+`)
	bareDecimalRE  = regexp.MustCompile(`\.\d+`)
)

func containsDecimal(text string) bool {
	if text == "" {
		return false
	}
	if plainDecimalRE.MatchString(text) {
		return true
	}
	for _, loc := range bareDecimalRE.FindAllStringIndex(text, -1) {
		if loc[0] == 0 || text[loc[0]-1] < '0' || text[loc[0]-1] > '9' {
			return true
		}
	}
	return false
}

// lc06Spec layers a decimal ban over the listening family. Payment
// items must compute in whole dollars; any fractional amount in the
// output fails the item so the pipeline regenerates it.
type lc06Spec struct {
	lcStandardSpec
}

func newLC06() Spec { return &lc06Spec{} }

func (s *lc06Spec) ID() string { return "LC06" }

func (s *lc06Spec) Validate(item map[string]any) error {
	if err := s.lcStandardSpec.Validate(item); err != nil {
		return err
	}
	if containsDecimal(stringify(item["transcript"])) {
		return fmt.Errorf("transcript contains a decimal number")
	}
	if containsDecimal(stringify(item["question"])) {
		return fmt.Errorf("question contains a decimal number")
	}
	if containsDecimal(stringify(item["explanation"])) {
		return fmt.Errorf("explanation contains a decimal number")
	}
	for i, opt := range TidyOptions(item["options"]) {
		if containsDecimal(opt) {
			return fmt.Errorf("option #%d contains a decimal number: %s", i+1, opt)
		}
	}
	return nil
}
