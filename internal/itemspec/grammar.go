package itemspec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abhisek/itemforge/internal/passage"
	"github.com/abhisek/itemforge/internal/prompts"
)

// RC29 stem; validation only requires the "incorrect" marker so light
// rephrasings survive.
const rc29Stem = "Among the underlined parts, which is grammatically <u>incorrect</u>?"

var (
	// label with no underline after it: wrap the next 1-3 tokens
	reLabelWrap = regexp.MustCompile(`([①②③④⑤])(?:\s|&nbsp;)*([^\s)»”"',.;:()<]+(?:\s+[^\s)»”"',.;:()<]+){0,2})`)
	// reversed order: <u>X</u> ① -> ①<u>X</u>
	reUnderlineThenNum = regexp.MustCompile(`(?is)<u>(.*?)</u>\s*([①②③④⑤])`)
	reAnyUnderline     = regexp.MustCompile(`(?is)<u>(.*?)</u>`)
	reLabeledUnderline = regexp.MustCompile(`(?is)([①②③④⑤])(?:\s|&nbsp;)*<u>(.*?)</u>`)
	// quote-mode spans carry the label inside the underline
	reInnerLabeledSpan = regexp.MustCompile(`<u>\s*([①②③④⑤])([^<]*?)</u>`)
	reLabelTail        = regexp.MustCompile(`[①②③④⑤](?:\s|&nbsp;)*$`)
	spanPunctRE        = regexp.MustCompile(`[,:;]`)
)

// normSpan strips clause punctuation from an underline span and caps
// it at three tokens.
func normSpan(txt string) string {
	txt = strings.TrimSpace(spanPunctRE.ReplaceAllString(txt, ""))
	toks := strings.Fields(txt)
	if len(toks) == 0 {
		return txt
	}
	if len(toks) > 3 {
		toks = toks[:3]
	}
	return strings.Join(toks, " ")
}

// underlineOnce wraps token as <u>labeltoken</u> at its first
// occurrence, strict word boundary first, whitespace-loose second.
func underlineOnce(text, label, token string) string {
	if token == "" {
		return text
	}
	wrap := func(m string) string { return "<u>" + label + m + "</u>" }
	strict, err := regexp.Compile(`(?i)\b(` + regexp.QuoteMeta(token) + `)\b`)
	if err == nil {
		if loc := strict.FindStringSubmatchIndex(text); loc != nil {
			return text[:loc[2]] + wrap(text[loc[2]:loc[3]]) + text[loc[3]:]
		}
	}
	loosePat := strings.ReplaceAll(regexp.QuoteMeta(token), `\ `, `\s+`)
	loose, err := regexp.Compile(`(?i)(` + loosePat + `)`)
	if err != nil {
		return text
	}
	if loc := loose.FindStringSubmatchIndex(text); loc != nil {
		return text[:loc[2]] + wrap(text[loc[2]:loc[3]]) + text[loc[3]:]
	}
	return text
}

func insertCircledUnderlines(passageText string, tokens []string) string {
	out := passageText
	for i, tok := range tokens {
		if i >= 5 {
			break
		}
		out = underlineOnce(out, circledLabels[i], strings.TrimSpace(tok))
	}
	return out
}

// rc29Spec is the grammar-judgment variant: five labeled underlined
// spans, exactly one ungrammatical.
type rc29Spec struct{}

func newRC29() Spec { return &rc29Spec{} }

func (s *rc29Spec) ID() string { return "RC29" }

func (s *rc29Spec) SystemPrompt() string {
	return "English exam item RC29 (Grammar Judgment). " +
		"Return ONLY JSON matching the schema. " +
		"Embed five labeled targets ① to ⑤ as <u>...</u>. " +
		"Each underline MUST be a single word or a very short unit (2-3 words). " +
		"Exactly ONE target is ungrammatical; four are correct. " +
		"The stem must be exactly '" + rc29Stem + "'. " +
		"Options must be ['①','②','③','④','⑤']. " +
		"Use ONLY the provided passage. Do NOT rewrite, paraphrase, shorten, extend, split, merge, or reorder any part."
}

func (s *rc29Spec) BuildPrompt(ctx GenContext) string {
	raw := ctx.Passage
	if strings.TrimSpace(raw) == "" {
		return prompts.Generate("RC29", orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), "")
	}
	// Custom passage: clear existing markers before the edit prompt.
	cleaned := passage.StripAnnotations(raw)
	return prompts.Build(prompts.BuildInput{
		ItemType:   "RC29_EDIT_ONE_FROM_CLEAN",
		Difficulty: orDefault(ctx.Difficulty, "medium"),
		Topic:      orDefault(ctx.Topic, "random"),
		Passage:    cleaned,
	})
}

func (s *rc29Spec) Normalize(raw map[string]any) (map[string]any, error) {
	return CoerceMCQLike(raw), nil
}

func (s *rc29Spec) Validate(item map[string]any) error {
	if err := validateSchema(mcqSchema, item); err != nil {
		return err
	}
	question := stringify(item["question"])
	if !strings.Contains(strings.ToLower(question), "incorrect") {
		return fmt.Errorf("stem must ask for the grammatically incorrect part")
	}
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be exactly ['①','②','③','④','⑤']")
	}
	p := stringify(item["passage"])
	marks := reLabeledUnderline.FindAllStringSubmatch(p, -1)
	if len(marks) < 3 || len(marks) > 6 {
		return fmt.Errorf("found %d labeled underlined targets, expected 3-6", len(marks))
	}
	// Span token counts outside 1-4 are tolerated; repair trims them.
	if len(strings.TrimSpace(stringify(item["explanation"]))) < 5 {
		return fmt.Errorf("explanation too short")
	}
	if _, err := AnswerIndex(item["correct_answer"], circledLabels); err != nil {
		return err
	}
	return nil
}

func (s *rc29Spec) Budget() Budget { return defaultBudget() }

// Repair fixes the common labeling failures: reversed label order,
// bare labels with no underline, duplicate labels, unlabeled
// underlines, and overgrown spans. A passage that already carries
// exactly five distinct labeled pairs is left untouched.
func (s *rc29Spec) Repair(item map[string]any, _ GenContext) map[string]any {
	data := make(map[string]any, len(item))
	for k, v := range item {
		data[k] = v
	}
	p, ok := data["passage"].(string)
	if !ok || strings.TrimSpace(p) == "" {
		return data
	}

	labeled := reLabeledUnderline.FindAllStringSubmatch(p, -1)
	if len(labeled) == 5 {
		seen := map[string]bool{}
		for _, m := range labeled {
			seen[m[1]] = true
		}
		if len(seen) == 5 {
			return data
		}
	}

	str := p

	// (1) reversed order
	str = reUnderlineThenNum.ReplaceAllStringFunc(str, func(m string) string {
		g := reUnderlineThenNum.FindStringSubmatch(m)
		return g[2] + "<u>" + normSpan(g[1]) + "</u>"
	})

	// (2) bare label: wrap following tokens
	str = replaceBareLabels(str)

	// (3) duplicate labels keep only the first occurrence
	str = dedupeLabels(str)

	// (4) assign missing labels to unlabeled underlines
	str = assignMissingLabels(str)

	// (5) clamp every labeled span to 1-3 tokens
	str = reLabeledUnderline.ReplaceAllStringFunc(str, func(m string) string {
		g := reLabeledUnderline.FindStringSubmatch(m)
		return g[1] + "<u>" + normSpan(g[2]) + "</u>"
	})

	data["passage"] = str
	return data
}

func replaceBareLabels(s string) string {
	return reLabelWrap.ReplaceAllStringFunc(s, func(m string) string {
		g := reLabelWrap.FindStringSubmatch(m)
		// already followed by an underline: reLabelWrap cannot match
		// "<" so a labeled pair never reaches here.
		phrase := normSpan(g[2])
		if phrase == "" {
			return g[1]
		}
		return g[1] + "<u>" + phrase + "</u>"
	})
}

func dedupeLabels(s string) string {
	var out strings.Builder
	pos := 0
	seen := map[string]bool{}
	for _, loc := range reLabeledUnderline.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		label := s[loc[2]:loc[3]]
		span := normSpan(s[loc[4]:loc[5]])
		out.WriteString(s[pos:start])
		if seen[label] {
			out.WriteString("<u>" + span + "</u>")
		} else {
			out.WriteString(label + "<u>" + span + "</u>")
			seen[label] = true
		}
		pos = end
	}
	out.WriteString(s[pos:])
	return out.String()
}

func assignMissingLabels(s string) string {
	present := map[string]bool{}
	for _, m := range reLabeledUnderline.FindAllStringSubmatch(s, -1) {
		present[m[1]] = true
	}
	var missing []string
	for _, n := range circledLabels {
		if !present[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return s
	}
	assigned := len(present)
	var out strings.Builder
	pos := 0
	for _, loc := range reAnyUnderline.FindAllStringSubmatchIndex(s, -1) {
		start, end := loc[0], loc[1]
		content := normSpan(s[loc[2]:loc[3]])
		out.WriteString(s[pos:start])
		prefixStart := start - 6
		if prefixStart < 0 {
			prefixStart = 0
		}
		hasLabel := reLabelTail.MatchString(s[prefixStart:start])
		if !hasLabel && len(missing) > 0 && assigned < 5 {
			out.WriteString(missing[0] + "<u>" + content + "</u>")
			missing = missing[1:]
			assigned++
		} else {
			out.WriteString("<u>" + content + "</u>")
		}
		pos = end
	}
	out.WriteString(s[pos:])
	return out.String()
}

var grammarCategories = map[string]bool{
	"relative": true, "tense_or_agreement": true, "modal": true, "passive": true, "participle": true,
}

func (s *rc29Spec) QuoteBuildPrompt(passageText string) string {
	return "Create a Grammar Judgment reading item from the given passage.\n\n" +
		"## HARD CONSTRAINTS ON GRAMMAR POINTS\n" +
		"- ABSOLUTE RULE: Every 'targets[i].text' MUST be copied EXACTLY from the passage.\n" +
		"- You MUST NOT invent, paraphrase, conjugate, or otherwise change any word or phrase that does NOT already appear in the passage.\n" +
		"- If a required grammar category does not appear in the passage, skip it and choose another REAL grammar point from the passage.\n" +
		"- Use the passage AS-IS for content: do NOT paraphrase, reorder, summarize, or expand sentences.\n" +
		"- Choose EXACTLY FIVE short targets (1-3 tokens each) from the passage, in order of first appearance.\n" +
		"- NEVER select a full clause or a long phrase as a target.\n" +
		"- Categories come from {'relative','tense_or_agreement','modal','passive','participle'};\n" +
		"  at least THREE DISTINCT categories must be used.\n" +
		"- Do NOT use articles, simple prepositions, or punctuation as grammar targets.\n\n" +
		"## GRAMMAR ERROR REQUIREMENT\n" +
		"- Make EXACTLY ONE of the five targets ungrammatical via a wrong_replacement that violates a clear rule\n" +
		"  (wrong relative pronoun, broken agreement, incorrect modal form, broken passive, wrong participle form).\n" +
		"- The other four targets must remain fully grammatical and stay as-is.\n" +
		"- Stylistic awkwardness or meaning-only shifts are NOT allowed as errors.\n\n" +
		"## RETURN FORMAT (JSON ONLY)\n" +
		"{\n" +
		"  \"question\": \"" + rc29Stem + "\",\n" +
		"  \"options\": [\"①\",\"②\",\"③\",\"④\",\"⑤\"],\n" +
		"  \"targets\": [{\"text\": \"...\", \"category\": \"...\"}, x5],\n" +
		"  \"wrong_index\": \"1\"..\"5\",\n" +
		"  \"wrong_replacement\": \"...\",\n" +
		"  \"correct_answer\": \"1\"..\"5\" (MUST equal wrong_index),\n" +
		"  \"explanation\": \"why the chosen form is wrong and what the correct form is\"\n" +
		"}\n" +
		"- Do NOT modify the passage or insert any <u>...</u> yourself. Only return the JSON metadata.\n" +
		"- DOUBLE-CHECK every target text is an exact, contiguous substring of the PASSAGE (case-insensitive ok).\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc29Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	texts, categories, err := parseTargets(raw["targets"])
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, t := range texts {
		if t == "" {
			missing = append(missing, t)
			continue
		}
		pat, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(t) + `\b`)
		if err != nil || !pat.MatchString(passageText) {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("targets not found in passage: %v", missing)
	}

	if len(categories) > 0 {
		distinct := map[string]bool{}
		for _, c := range categories {
			if !grammarCategories[c] {
				return nil, fmt.Errorf("invalid grammar category %q", c)
			}
			distinct[c] = true
		}
		if len(distinct) < 3 {
			return nil, fmt.Errorf("need at least 3 distinct grammar categories, got %v", categories)
		}
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

	replaced := collapseDupWords(replaceOnce(passageText, orig, repl))
	tokens := make([]string, len(texts))
	copy(tokens, texts)
	tokens[wi] = repl

	marked := insertCircledUnderlines(replaced, tokens)
	if n := len(reInnerLabeledSpan.FindAllString(marked, -1)); n != 5 {
		return nil, fmt.Errorf("failed to insert 5 underlines, got %d", n)
	}

	return map[string]any{
		"passage":        marked,
		"question":       rc29Stem,
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": wrongIdx,
		"explanation":    stringify(raw["explanation"]),
	}, nil
}

func (s *rc29Spec) QuoteValidate(item map[string]any) error {
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be ['①','②','③','④','⑤']")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be 1-5")
	}
	p := stringify(item["passage"])
	marks := reInnerLabeledSpan.FindAllStringSubmatch(p, -1)
	if len(marks) != 5 {
		return fmt.Errorf("expected 5 underlined spans, got %d", len(marks))
	}
	seen := map[string]int{}
	for _, m := range marks {
		seen[m[1]]++
	}
	for _, n := range circledLabels {
		if seen[n] != 1 {
			return fmt.Errorf("each label ① to ⑤ must appear exactly once in underlines")
		}
	}
	for _, m := range marks {
		toks := strings.Fields(strings.TrimSpace(m[2]))
		if len(toks) < 1 || len(toks) > 3 {
			return fmt.Errorf("underline span %q has %d tokens; require 1-3", strings.TrimSpace(m[2]), len(toks))
		}
	}
	return nil
}

// parseTargets accepts both the structured {"text","category"} form and
// the legacy bare string list.
func parseTargets(v any) (texts []string, categories []string, err error) {
	list, ok := v.([]any)
	if !ok {
		return nil, nil, fmt.Errorf("targets must be a list")
	}
	if len(list) > 5 {
		list = list[:5]
	}
	for _, it := range list {
		if obj, ok := it.(map[string]any); ok {
			if t := strings.TrimSpace(stringify(obj["text"])); t != "" {
				texts = append(texts, t)
			}
			categories = append(categories, strings.TrimSpace(stringify(obj["category"])))
			continue
		}
		texts = append(texts, strings.TrimSpace(stringify(it)))
		categories = nil
	}
	if len(texts) != 5 {
		return nil, nil, fmt.Errorf("targets must have exactly 5 items")
	}
	return texts, categories, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
