package itemspec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

// ErrIncompleteOutput marks a response whose core fields came back
// truncated or missing. The pipeline treats it as a regeneration
// trigger rather than a repairable item.
var ErrIncompleteOutput = errors.New("incomplete model output, regenerate")

var (
	abOptionRE   = regexp.MustCompile(`\(A\)\s*:?\s*(.*?)\s*[-\x{2013}\x{2014}]\s*\(B\)\s*:?\s*(.*)$`)
	abDashRE     = regexp.MustCompile(`\s*[-\x{2013}\x{2014}]\s*`)
	abLabelLeadRE = regexp.MustCompile(`^\([AB]\)\s*:?\s*`)
)

// splitABOption pulls the (A) and (B) parts out of one option string.
// Returns empty strings when the option does not split cleanly.
func splitABOption(opt string) (string, string) {
	s := strings.TrimSpace(opt)
	if m := abOptionRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	parts := abDashRE.Split(s, 2)
	if len(parts) == 2 {
		a := strings.TrimSpace(abLabelLeadRE.ReplaceAllString(strings.TrimSpace(parts[0]), ""))
		b := strings.TrimSpace(abLabelLeadRE.ReplaceAllString(strings.TrimSpace(parts[1]), ""))
		if a != "" && b != "" {
			return a, b
		}
	}
	return "", ""
}

type rc40Spec struct{}

func newRC40() Spec { return &rc40Spec{} }

func (s *rc40Spec) ID() string { return "RC40" }

func (s *rc40Spec) SystemPrompt() string {
	return "English exam item RC40 (Summary Completion). " +
		"Return ONLY a syntactically complete JSON object with fields: " +
		"{question, passage, summary_template, options[5], correct_answer('1'..'5'), explanation}. " +
		"summary_A and summary_B are OPTIONAL helper fields; include them only if useful. " +
		"Use ONLY the provided passage. Do NOT truncate arrays or leave dangling commas/quotes. " +
		"correct_answer MUST be one of '1','2','3','4','5' (a string)."
}

func (s *rc40Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC40"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

// coreIncomplete reports whether the required fields are absent or
// blank, the signature of a truncated response.
func coreIncomplete(d map[string]any) bool {
	for _, k := range []string{"question", "passage", "summary_template", "options", "correct_answer", "explanation"} {
		v, ok := d[k]
		if !ok {
			return true
		}
		if sv, isStr := v.(string); isStr && strings.TrimSpace(sv) == "" {
			return true
		}
	}
	return len(TidyOptions(d["options"])) != 5
}

func (s *rc40Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)

	opts := TidyOptions(d["options"])
	if len(opts) > 0 {
		d["options"] = opts
	}
	if len(opts) > 0 && d["correct_answer"] != nil {
		d["correct_answer"] = answerToIndex(d["correct_answer"], opts)
	}

	// recover summary_A/B from the correct option when the model
	// skipped them; best effort only
	hasA := strings.TrimSpace(stringify(d["summary_A"])) != ""
	hasB := strings.TrimSpace(stringify(d["summary_B"])) != ""
	ca := strings.TrimSpace(stringify(d["correct_answer"]))
	if (!hasA || !hasB) && len(opts) > 0 && len(ca) == 1 && ca >= "1" && ca <= "5" {
		if idx := int(ca[0] - '1'); idx < len(opts) {
			a, b := splitABOption(opts[idx])
			if !hasA && a != "" {
				d["summary_A"] = a
			}
			if !hasB && b != "" {
				d["summary_B"] = b
			}
		}
	}

	if coreIncomplete(d) {
		return nil, ErrIncompleteOutput
	}
	return d, nil
}

func (s *rc40Spec) Validate(item map[string]any) error {
	if err := validateSchema(summarySchema, item); err != nil {
		return err
	}
	opts := TidyOptions(item["options"])
	if len(opts) != 5 {
		return fmt.Errorf("options must have exactly 5 items")
	}
	seen := map[string]bool{}
	for _, o := range opts {
		seen[strings.ToLower(o)] = true
	}
	if len(seen) < 5 {
		return fmt.Errorf("options must be distinct (avoid near duplicates)")
	}
	ca := strings.TrimSpace(stringify(item["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be one of '1'..'5'")
	}
	return nil
}

func (s *rc40Spec) Budget() Budget { return Budget{Fixer: 2, Regen: 3, Timeout: 28 * time.Second} }
