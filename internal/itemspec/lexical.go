package itemspec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/itemforge/internal/prompts"
)

const rc30Stem = "Among the underlined words, which is NOT appropriate in context?"

var (
	circledRE      = regexp.MustCompile(`[①②③④⑤]`)
	leadingLabelRE = regexp.MustCompile(`^[①②③④⑤]\s*`)
)

// rc30Spec is the lexical-appropriateness variant: five underlined
// content words, exactly one wrong for its context. Validation is
// deliberately loose; numbered options without underlines also pass.
type rc30Spec struct{}

func newRC30() Spec { return &rc30Spec{} }

func (s *rc30Spec) ID() string { return "RC30" }

func (s *rc30Spec) SystemPrompt() string {
	return "English exam item RC30 (Lexical Appropriateness). " +
		"Task: ask which underlined word in the PASSAGE is INAPPROPRIATE in context. " +
		"Underline tokens in the PASSAGE using <u>...</u>; DO NOT put the words in options. " +
		"OPTIONS MUST be only the labels: ①, ②, ③, ④, ⑤. " +
		"Ensure exactly ONE option is contextually inappropriate; the others must be acceptable. " +
		"Output JSON only; no code fences."
}

func (s *rc30Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate("RC30", orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc30Spec) Normalize(raw map[string]any) (map[string]any, error) {
	return CoerceMCQLike(raw), nil
}

func (s *rc30Spec) Validate(item map[string]any) error {
	if err := validateSchema(mcqSchema, item); err != nil {
		return err
	}
	q := stringify(item["question"])
	p := stringify(item["passage"])
	qLower := strings.ToLower(q)

	lexicalCues := strings.Contains(qLower, "inappropriate") ||
		strings.Contains(qLower, "appropriate") ||
		strings.Contains(qLower, "word choice") ||
		strings.Contains(qLower, "lexical") ||
		strings.Contains(qLower, "collocation")
	hasUnderline := reAnyUnderline.MatchString(p) || reAnyUnderline.MatchString(q)
	hasCircled := circledRE.MatchString(p) || circledRE.MatchString(q)

	if !lexicalCues && !hasUnderline && !hasCircled {
		return fmt.Errorf("expected lexical-appropriateness cues: mention word appropriateness, use <u>...</u>, or number targets ① to ⑤")
	}

	opts := TidyOptions(item["options"])
	if len(opts) < 4 {
		return fmt.Errorf("requires 4-5 options representing candidate words")
	}
	ca := StandardizeAnswer(stringify(item["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must point to exactly one option (1-5)")
	}
	return nil
}

func (s *rc30Spec) Budget() Budget { return defaultBudget() }

// Repair relabels the passage's underlines ①<u>w</u> through ⑤<u>w</u>
// in order and, when exactly five are found, rewrites the options as
// bare labels and standardizes the answer.
func (s *rc30Spec) Repair(item map[string]any, ctx GenContext) map[string]any {
	data := make(map[string]any, len(item))
	for k, v := range item {
		data[k] = v
	}
	txt := stringify(data["passage"])
	if txt == "" {
		txt = ctx.Passage
	}
	txt = circledRE.ReplaceAllString(txt, "")

	var parts []string
	idx := 0
	txt = reAnyUnderline.ReplaceAllStringFunc(txt, func(m string) string {
		g := reAnyUnderline.FindStringSubmatch(m)
		clean := collapseDupWords(strings.TrimSpace(leadingLabelRE.ReplaceAllString(g[1], "")))
		parts = append(parts, clean)
		i := idx
		if i > 4 {
			i = 4
		}
		idx++
		return "<u>" + circledLabels[i] + clean + "</u>"
	})

	if len(parts) == 5 {
		data["options"] = append([]string(nil), circledLabels...)
		ca := StandardizeAnswer(stringify(data["correct_answer"]))
		if len(ca) != 1 || ca < "1" || ca > "5" {
			ca = "1"
		}
		data["correct_answer"] = ca
	}
	data["passage"] = txt
	return data
}

func (s *rc30Spec) QuoteBuildPrompt(passageText string) string {
	return "You are generating a lexical-appropriateness reading item from the given PASSAGE.\n" +
		"RULES:\n" +
		"- DO NOT modify the passage text. DO NOT insert <u>...</u> or circled numbers into the passage.\n" +
		"- Choose exactly five target tokens from the PASSAGE and return them in ORDER OF FIRST APPEARANCE.\n" +
		"- Each token MUST be a contiguous substring that actually exists in the passage (case-insensitive ok).\n" +
		"- Exactly ONE token must be made contextually INAPPROPRIATE by replacing it with a wrong form that is still grammatical but semantically or pragmatically wrong in this context.\n" +
		"- Provide which one to replace (wrong_index: \"1\"..\"5\") and the replacement string (wrong_replacement).\n" +
		"- The explanation must say why the replaced word is inappropriate; include the label and word like ②<u>wrong_replacement</u>.\n" +
		"Return JSON only with keys: {\"question\",\"options\",\"targets\",\"wrong_index\",\"wrong_replacement\",\"correct_answer\",\"explanation\"}.\n" +
		"- \"options\" MUST be [\"①\",\"②\",\"③\",\"④\",\"⑤\"].\n" +
		"- \"targets\" MUST be [\"t1\",\"t2\",\"t3\",\"t4\",\"t5\"] in appearance order and MUST match substrings in the passage.\n" +
		"- \"wrong_index\" MUST be \"1\"|\"2\"|\"3\"|\"4\"|\"5\"; \"correct_answer\" MUST equal \"wrong_index\".\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc30Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	texts, _, err := parseTargets(raw["targets"])
	if err != nil {
		return nil, err
	}

	wrongIdx := strings.TrimSpace(stringify(raw["wrong_index"]))
	if wrongIdx == "" {
		wrongIdx = strings.TrimSpace(stringify(raw["correct_answer"]))
	}
	if len(wrongIdx) != 1 || wrongIdx < "1" || wrongIdx > "5" {
		return nil, fmt.Errorf("wrong_index must be '1'..'5'")
	}
	wi := int(wrongIdx[0] - '1')

	repl := strings.TrimSpace(stringify(raw["wrong_replacement"]))
	orig := strings.TrimSpace(texts[wi])
	if orig == "" || repl == "" || strings.EqualFold(repl, orig) {
		return nil, fmt.Errorf("invalid wrong_replacement or original token")
	}

	replaced := replaceOnce(passageText, orig, repl)
	tokens := make([]string, len(texts))
	copy(tokens, texts)
	tokens[wi] = repl
	marked := insertCircledUnderlines(replaced, tokens)

	return map[string]any{
		"passage":        marked,
		"question":       rc30Stem,
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": wrongIdx,
		"explanation":    stringify(raw["explanation"]),
	}, nil
}

func (s *rc30Spec) QuoteValidate(item map[string]any) error {
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be ['①','②','③','④','⑤']")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be 1-5")
	}
	p := stringify(item["passage"])
	for _, n := range circledLabels {
		if strings.Count(p, "<u>"+n) != 1 {
			return fmt.Errorf("passage must contain underline %s exactly once", n)
		}
	}
	return nil
}
