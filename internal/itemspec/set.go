package itemspec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/passage"
	"github.com/abhisek/itemforge/internal/prompts"
)

const (
	rc41Instruction = "[41-42] Read the following passage and answer the questions."
	rc43Instruction = "[43-45] Read the following passage and answer the questions."

	rc41Stem = "Which is the most appropriate title for the passage?"
	rc42Stem = "Among the underlined (a)~(e), which word is NOT used appropriately in context? [3 points]"
)

var (
	letterUnderlineRE = regexp.MustCompile(`(?is)\(([a-e])\)\s*<u>(.*?)</u>`)
	letterLabelOnlyRE = regexp.MustCompile(`(?i)\(([a-e])\)\s*`)
	bareUnderlineRE   = regexp.MustCompile(`(?is)<u>(.*?)</u>`)
)

// cleanForEdit removes (a)-(e) markers and underlines so the edit
// prompt starts from unmarked text.
func cleanForEdit(text string) string {
	s := letterUnderlineRE.ReplaceAllString(text, "$2")
	s = letterLabelOnlyRE.ReplaceAllString(s, "")
	s = bareUnderlineRE.ReplaceAllString(s, "$1")
	return strings.TrimSpace(passage.StripAnnotations(s))
}

// setQuestion is the normalized shape of one question inside a set.
func normalizeSetQuestion(q map[string]any, defaultNumber int) map[string]any {
	num := defaultNumber
	switch n := q["question_number"].(type) {
	case float64:
		num = int(n)
	case int:
		num = n
	case string:
		if v := strings.TrimSpace(n); v != "" {
			fmt.Sscanf(v, "%d", &num)
		}
	}

	opts := TidyOptions(q["options"])
	if len(opts) > 5 {
		opts = opts[:5]
	}
	for len(opts) < 5 {
		opts = append(opts, fmt.Sprintf("Option %d", len(opts)+1))
	}

	ca := strings.TrimSpace(stringify(q["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		ca = "1"
	}

	return map[string]any{
		"question_number": num,
		"question":        strings.TrimSpace(stringify(q["question"])),
		"options":         opts,
		"correct_answer":  ca,
		"explanation":     strings.TrimSpace(stringify(q["explanation"])),
	}
}

func setQuestions(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func questionNumber(q map[string]any) int {
	switch n := q["question_number"].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func defaultQ41() map[string]any {
	return map[string]any{
		"question_number": 41,
		"question":        rc41Stem,
		"options":         []string{"Title 1", "Title 2", "Title 3", "Title 4", "Title 5"},
		"correct_answer":  "1",
		"explanation":     "",
	}
}

func defaultQ42() map[string]any {
	return map[string]any{
		"question_number": 42,
		"question":        rc42Stem,
		"options":         append([]string(nil), letterLabels...),
		"correct_answer":  "1",
		"explanation":     "",
	}
}

// ---- RC41_42: title + vocabulary set ----

type rc4142Spec struct{}

func newRC4142() Spec { return &rc4142Spec{} }

func (s *rc4142Spec) ID() string { return "RC41_42" }

func (s *rc4142Spec) SystemPrompt() string {
	return "English exam items RC41-RC42 (Reading SET). " +
		"Return ONLY JSON; no markdown. " +
		"Use ONLY the provided passage for content. Do NOT invent a new passage. " +
		"Q41: title, Q42: one inappropriate vocabulary among (a)~(e). " +
		"If markers are missing, still produce consistent questions; do not rewrite the passage."
}

func (s *rc4142Spec) BuildPrompt(ctx GenContext) string {
	raw := strings.TrimSpace(ctx.Passage)
	if raw != "" {
		return prompts.Build(prompts.BuildInput{
			ItemType:   "RC41_42_EDIT_ONE_FROM_CLEAN",
			Difficulty: orDefault(ctx.Difficulty, "medium"),
			Topic:      orDefault(ctx.Topic, "random"),
			Passage:    cleanForEdit(raw),
		})
	}
	return prompts.Generate("RC41_42", orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), "")
}

func (s *rc4142Spec) Normalize(raw map[string]any) (map[string]any, error) {
	out := map[string]any{
		"set_instruction": orDefault(strings.TrimSpace(stringify(raw["set_instruction"])), rc41Instruction),
		"passage":         stringify(raw["passage"]),
	}

	qsIn := setQuestions(raw["questions"])
	if raw["questions"] != nil && qsIn == nil {
		if _, isList := raw["questions"].([]any); !isList {
			return nil, fmt.Errorf("questions must be a list")
		}
	}
	if len(qsIn) > 2 {
		qsIn = qsIn[:2]
	}

	var qs []map[string]any
	for i, q := range qsIn {
		def := 41
		if i == 1 {
			def = 42
		}
		nq := normalizeSetQuestion(q, def)
		if n := questionNumber(nq); n == 41 || n == 42 {
			qs = append(qs, nq)
		}
	}

	// keep the set whole even when one question is dropped
	have := map[int]bool{}
	for _, q := range qs {
		have[questionNumber(q)] = true
	}
	if !have[41] {
		qs = append([]map[string]any{defaultQ41()}, qs...)
	}
	if !have[42] {
		qs = append(qs, defaultQ42())
	}
	sort.Slice(qs, func(i, j int) bool { return questionNumber(qs[i]) < questionNumber(qs[j]) })

	anyQs := make([]any, len(qs))
	for i, q := range qs {
		anyQs[i] = q
	}
	out["questions"] = anyQs
	return out, nil
}

func (s *rc4142Spec) Validate(item map[string]any) error {
	if err := validateSchema(setSchema, item); err != nil {
		return err
	}
	if strings.TrimSpace(stringify(item["passage"])) == "" {
		return fmt.Errorf("passage is required")
	}
	qs := setQuestions(item["questions"])
	if len(qs) < 2 {
		return fmt.Errorf("questions must contain two items for 41 and 42")
	}
	var q41, q42 map[string]any
	for _, q := range qs {
		switch questionNumber(q) {
		case 41:
			q41 = q
		case 42:
			q42 = q
		}
	}
	if q41 == nil || q42 == nil {
		return fmt.Errorf("questions must include question_number 41 and 42")
	}
	for name, q := range map[string]map[string]any{"Q41": q41, "Q42": q42} {
		if len(TidyOptions(q["options"])) != 5 {
			return fmt.Errorf("%s options must be a list of 5 strings", name)
		}
		ca := stringify(q["correct_answer"])
		if len(ca) != 1 || ca < "1" || ca > "5" {
			return fmt.Errorf("%s correct_answer must be '1'..'5'", name)
		}
	}
	return nil
}

// SelfChecks returns nothing for sets: the pipeline fails an item on
// any returned issue, and marker or paragraph gaps here are warnings,
// not defects.
func (s *rc4142Spec) SelfChecks(map[string]any, string) []string { return nil }

func (s *rc4142Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 2, Timeout: 25 * time.Second} }

// ---- RC43_45: long reading set ----

type rc4345Spec struct{}

func newRC4345() Spec { return &rc4345Spec{} }

func (s *rc4345Spec) ID() string { return "RC43_45" }

func (s *rc4345Spec) SystemPrompt() string {
	return "You are generating English exam items RC43-RC45 (Long Reading Set). " +
		"Return ONLY valid JSON with keys: item_type, set_instruction, passage_parts, questions. " +
		"Include four paragraphs (A-D) and three questions (43,44,45). " +
		"Options must be 5 choices each, correct_answer must be 1-5."
}

func (s *rc4345Spec) BuildPrompt(ctx GenContext) string {
	raw := strings.TrimSpace(ctx.Passage)
	if raw != "" {
		return prompts.Build(prompts.BuildInput{
			ItemType:   "RC43_45_EDIT_ONE_FROM_CLEAN",
			Difficulty: orDefault(ctx.Difficulty, "medium"),
			Topic:      orDefault(ctx.Topic, "random"),
			Passage:    passage.StripAnnotations(raw),
		})
	}
	return prompts.Generate("RC43_45", orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), "")
}

func (s *rc4345Spec) Normalize(raw map[string]any) (map[string]any, error) {
	out := map[string]any{
		"item_type":       "RC_SET",
		"set_instruction": orDefault(strings.TrimSpace(stringify(raw["set_instruction"])), rc43Instruction),
	}
	if pp, ok := raw["passage_parts"].(map[string]any); ok && len(pp) > 0 {
		out["passage_parts"] = pp
	} else {
		out["passage_parts"] = map[string]any{"A": "", "B": "", "C": "", "D": ""}
	}

	qs := []any{}
	for i, q := range setQuestions(raw["questions"]) {
		qs = append(qs, normalizeSetQuestion(q, 43+i))
	}
	out["questions"] = qs
	return out, nil
}

func (s *rc4345Spec) Validate(item map[string]any) error {
	if err := validateSchema(longSetSchema, item); err != nil {
		return err
	}
	if stringify(item["item_type"]) != "RC_SET" {
		return fmt.Errorf("item_type must be RC_SET")
	}
	for _, q := range setQuestions(item["questions"]) {
		if _, ok := q["explanation"]; !ok {
			return fmt.Errorf("each question must include an explanation")
		}
	}
	return nil
}

func (s *rc4345Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 15 * time.Second} }
