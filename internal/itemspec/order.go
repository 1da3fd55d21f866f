package itemspec

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

const orderStem = "Which is the most appropriate order of the paragraphs following the given text?"

// standardOrderOptions are the five answer patterns; (A)-(B)-(C) is
// deliberately absent so the natural order is never the trivial one.
var standardOrderOptions = []string{
	"(A)-(C)-(B)",
	"(B)-(A)-(C)",
	"(B)-(C)-(A)",
	"(C)-(A)-(B)",
	"(C)-(B)-(A)",
}

var partKeys = []string{"(A)", "(B)", "(C)"}

var (
	partHeaderRE    = regexp.MustCompile(`\n\s*\((A|B|C)\)\s*`)
	blockSplitRE    = regexp.MustCompile(`\n{2,}`)
	partLabelRE     = regexp.MustCompile(`^\((A|B|C)\)\s*`)
	patternSepRE    = regexp.MustCompile(`\s*[-~>\x{2192}]\s*`)
	anyWhitespaceRE = regexp.MustCompile(`\s+`)
)

// partsMap pulls the "(A)"/"(B)"/"(C)" texts from a raw value.
func partsMap(v any) map[string]string {
	out := map[string]string{}
	obj, ok := v.(map[string]any)
	if !ok {
		return out
	}
	for _, k := range partKeys {
		out[k] = strings.TrimSpace(stringify(obj[k]))
	}
	return out
}

func hasParts(pp map[string]string) bool {
	for _, v := range pp {
		if v != "" {
			return true
		}
	}
	return false
}

func partsToAny(pp map[string]string) map[string]any {
	out := make(map[string]any, len(pp))
	for k, v := range pp {
		out[k] = v
	}
	return out
}

// parsePassageToParts extracts intro + (A)/(B)/(C) from a monolithic
// passage. Parts come back empty when no markers are found.
func parsePassageToParts(passageText string) (string, map[string]string) {
	text := strings.TrimSpace(passageText)
	if text == "" {
		return "", nil
	}

	// newline-delimited (A)(B)(C) headers
	pieces := partHeaderRE.Split(text, -1)
	headers := partHeaderRE.FindAllStringSubmatch(text, -1)
	if len(pieces) >= 4 && len(headers) >= 3 &&
		headers[0][1] == "A" && headers[1][1] == "B" && headers[2][1] == "C" {
		return strings.TrimSpace(pieces[0]), map[string]string{
			"(A)": strings.TrimSpace(pieces[1]),
			"(B)": strings.TrimSpace(pieces[2]),
			"(C)": strings.TrimSpace(pieces[3]),
		}
	}

	// blank-line blocks starting with "(A) ..."
	tmp := map[string]string{}
	var introChunks []string
	for _, blk := range blockSplitRE.Split(text, -1) {
		s := strings.TrimSpace(blk)
		if s == "" {
			continue
		}
		if m := partLabelRE.FindStringSubmatch(s); m != nil {
			tmp["("+m[1]+")"] = strings.TrimSpace(partLabelRE.ReplaceAllString(s, ""))
		} else {
			introChunks = append(introChunks, s)
		}
	}
	if len(tmp) > 0 {
		parts := map[string]string{}
		for _, k := range partKeys {
			if v, ok := tmp[k]; ok {
				parts[k] = v
			}
		}
		return strings.TrimSpace(strings.Join(introChunks, "\n\n")), parts
	}
	return text, nil
}

// normalizePattern reduces "(B)-(A)-(C)", " b > a > c " and friends
// to "B-A-C".
func normalizePattern(pattern string) string {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	p = strings.NewReplacer("(", "", ")", "").Replace(p)
	p = patternSepRE.ReplaceAllString(p, "-")
	return anyWhitespaceRE.ReplaceAllString(p, "")
}

func orderAnswerToIndex(answer any, options []string) string {
	a := strings.TrimSpace(stringify(answer))
	if len(a) == 1 && a >= "1" && a <= "5" {
		return a
	}
	for i, o := range options {
		if o == a || normalizePattern(o) == normalizePattern(a) {
			return fmt.Sprint(i + 1)
		}
	}
	return a
}

// ---- RC36: paragraph ordering ----

type rc36Spec struct{}

func newRC36() Spec { return &rc36Spec{} }

func (s *rc36Spec) ID() string { return "RC36" }

func (s *rc36Spec) SystemPrompt() string {
	return "English exam item RC36 (ordering: arrange A/B/C after the intro).\n" +
		"If NO passage is provided, CREATE:\n" +
		"- an intro_paragraph (40-70 words),\n" +
		"- three continuation parts labeled (A), (B), (C) (each 35-70 words).\n" +
		"Set options EXACTLY to: ['(A)-(C)-(B)','(B)-(A)-(C)','(B)-(C)-(A)','(C)-(A)-(B)','(C)-(B)-(A)'].\n" +
		"Set correct_answer to a STRING digit '1'..'5' (index of the correct option).\n" +
		"Return ONLY JSON with fields: question, intro_paragraph, passage_parts, options, " +
		"correct_answer, explanation[, rationale]."
}

func (s *rc36Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC36"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc36Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := make(map[string]any, len(raw))
	for k, v := range raw {
		d[k] = v
	}
	for _, k := range []string{"question", "intro_paragraph", "explanation", "rationale"} {
		if sv, ok := d[k].(string); ok {
			d[k] = strings.TrimSpace(sv)
		}
	}
	d["passage_parts"] = partsToAny(partsMap(d["passage_parts"]))
	d["options"] = append([]string(nil), standardOrderOptions...)
	d["correct_answer"] = orderAnswerToIndex(d["correct_answer"], standardOrderOptions)
	return d, nil
}

func (s *rc36Spec) Validate(item map[string]any) error {
	if err := validateSchema(orderSchema, item); err != nil {
		return err
	}
	q := strings.ReplaceAll(stringify(item["question"]), " ", "")
	if q != strings.ReplaceAll(orderStem, " ", "") {
		return fmt.Errorf("question must be exactly %q", orderStem)
	}
	pp := partsMap(item["passage_parts"])
	for _, k := range partKeys {
		if pp[k] == "" {
			return fmt.Errorf("passage_parts must include '(A)', '(B)', '(C)'")
		}
		if len(strings.Fields(pp[k])) < 5 {
			return fmt.Errorf("passage_parts[%s] is too short (need >= 5 words)", k)
		}
	}
	if !equalStrings(TidyOptions(item["options"]), standardOrderOptions) {
		return fmt.Errorf("options must match the standard 5 patterns exactly")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be a string digit from '1' to '5'")
	}
	if strings.TrimSpace(stringify(item["explanation"])) == "" {
		return fmt.Errorf("explanation is required")
	}
	return nil
}

func (s *rc36Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 18 * time.Second} }

func (s *rc36Spec) QuoteBuildPrompt(passageText string) string {
	optsStr := `["(A)-(C)-(B)", "(B)-(A)-(C)", "(B)-(C)-(A)", "(C)-(A)-(B)", "(C)-(B)-(A)"]`
	return "You will create a paragraph-ordering reading item in QUOTE MODE.\n\n" +
		"=============================\n" +
		"OVERALL GOAL\n" +
		"=============================\n" +
		"You are given a PASSAGE. Your task is to RECONSTRUCT it into:\n" +
		"- one introductory paragraph (intro_paragraph), and\n" +
		"- three continuation paragraphs labeled (A), (B), (C).\n\n" +
		"You MAY lightly rewrite, merge, or split sentences to improve coherence,\n" +
		"as long as you PRESERVE the original meaning and key information.\n" +
		"Do NOT invent clearly new facts that contradict the passage.\n\n" +
		"=============================\n" +
		"RULES ABOUT RECONSTRUCTION\n" +
		"=============================\n" +
		"1) Read the PASSAGE and understand its main topic and logical flow.\n" +
		"2) Construct an intro_paragraph (40-80 words) that sets up the topic and context.\n" +
		"3) Construct three continuation paragraphs (A), (B), (C), each 35-80 words,\n" +
		"   reorganizing sentences from the PASSAGE while preserving meaning.\n" +
		"4) You are ALLOWED to slightly rearrange information across (A), (B), (C)\n" +
		"   so that there is a SINGLE most natural logical order among the three.\n\n" +
		"IMPORTANT:\n" +
		"- Do NOT simply copy the original paragraph boundaries if that makes only (A)-(B)-(C) natural.\n" +
		"- Adjust which ideas go into (A), (B), (C) so that exactly ONE of the 5 patterns\n" +
		"  below is clearly the most natural logical order.\n\n" +
		"=============================\n" +
		"NATURAL ORDER (5 patterns ONLY)\n" +
		"=============================\n" +
		"Choose the SINGLE most natural order of (A), (B), (C) from these 5 patterns ONLY:\n" +
		"  " + optsStr + "\n\n" +
		"Call this 'gold_order'. It MUST be one of those 5 patterns.\n" +
		"- Do NOT use '(A)-(B)-(C)' as gold_order.\n" +
		"- If your reconstruction would make '(A)-(B)-(C)' the best order, you MUST modify\n" +
		"  the paragraph boundaries so that one of the 5 patterns becomes the most natural.\n\n" +
		"=============================\n" +
		"QUESTION FORMAT\n" +
		"=============================\n" +
		"- question MUST be exactly: \"" + orderStem + "\"\n" +
		"- options MUST be EXACTLY: " + optsStr + "\n" +
		"- explanation MUST explain why your gold_order is logically correct.\n" +
		"- rationale is optional (can be an empty string).\n\n" +
		"=============================\n" +
		"STRICT JSON OUTPUT FORMAT\n" +
		"=============================\n" +
		"{\n" +
		"  \"question\": \"" + orderStem + "\",\n" +
		"  \"intro_paragraph\": \"[Introductory paragraph in English]\",\n" +
		"  \"passage_parts\": {\"(A)\": \"...\", \"(B)\": \"...\", \"(C)\": \"...\"},\n" +
		"  \"options\": " + optsStr + ",\n" +
		"  \"gold_order\": \"(A)-(C)-(B)\" | \"(B)-(A)-(C)\" | \"(B)-(C)-(A)\" | \"(C)-(A)-(B)\" | \"(C)-(B)-(A)\",\n" +
		"  \"explanation\": \"[explanation of the logical order]\",\n" +
		"  \"rationale\": \"[optional or empty string]\"\n" +
		"}\n\n" +
		"- Output ONLY this JSON object. No extra text.\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc36Spec) QuotePostprocess(_ string, raw map[string]any) (map[string]any, error) {
	gold := stringify(raw["gold_order"])
	if strings.TrimSpace(gold) == "" {
		return nil, fmt.Errorf("quote mode requires 'gold_order' as a string")
	}
	goldCompact := strings.ReplaceAll(gold, " ", "")
	matched := -1
	for i, opt := range standardOrderOptions {
		if strings.ReplaceAll(opt, " ", "") == goldCompact {
			matched = i
			break
		}
	}
	if matched < 0 {
		return nil, fmt.Errorf("gold_order must be one of %v, got %q", standardOrderOptions, gold)
	}

	item := map[string]any{
		"question":       orderStem,
		"intro_paragraph": strings.TrimSpace(stringify(raw["intro_paragraph"])),
		"passage_parts":  partsToAny(partsMap(raw["passage_parts"])),
		"options":        append([]string(nil), standardOrderOptions...),
		"correct_answer": fmt.Sprint(matched + 1),
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}
	if r := strings.TrimSpace(stringify(raw["rationale"])); r != "" {
		item["rationale"] = r
	}
	return item, nil
}

func (s *rc36Spec) QuoteValidate(item map[string]any) error {
	return s.Validate(item)
}

// ---- RC37: paragraph ordering, advanced ----

type rc37Spec struct{}

func newRC37() Spec { return &rc37Spec{} }

func (s *rc37Spec) ID() string { return "RC37" }

func (s *rc37Spec) SystemPrompt() string {
	return "English exam item RC37 (advanced paragraph ordering). " +
		"You MUST return ONLY JSON that matches the schema: " +
		"{question, intro_paragraph, passage_parts:{'(A)':'...', '(B)':'...', '(C)':'...'}, " +
		"options:[5 items like '(B)-(C)-(A)'], correct_answer:'1-5', explanation}. " +
		"Use ONLY the provided passage (do not add external facts)."
}

func (s *rc37Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC37"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc37Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	for _, k := range []string{"question", "intro_paragraph", "explanation", "correct_answer"} {
		if d[k] != nil {
			d[k] = strings.TrimSpace(stringify(d[k]))
		}
	}
	opts := TidyOptions(d["options"])
	if len(opts) > 0 {
		d["options"] = opts
	}
	if pp, ok := d["passage_parts"].(map[string]any); ok {
		d["passage_parts"] = partsToAny(partsMap(pp))
	}

	// monolithic passage: recover intro + parts from the text
	if strings.TrimSpace(stringify(d["intro_paragraph"])) == "" && !hasParts(partsMap(d["passage_parts"])) {
		if p := stringify(d["passage"]); p != "" {
			intro, parts := parsePassageToParts(p)
			if intro != "" {
				d["intro_paragraph"] = intro
			}
			if len(parts) > 0 {
				d["passage_parts"] = partsToAny(parts)
			}
		}
	}

	if len(opts) > 0 && d["correct_answer"] != nil {
		d["correct_answer"] = orderAnswerToIndex(d["correct_answer"], opts)
	}
	return d, nil
}

func (s *rc37Spec) Validate(item map[string]any) error {
	if err := validateSchema(orderSchema, item); err != nil {
		return err
	}
	pp := partsMap(item["passage_parts"])
	var missing []string
	for _, k := range partKeys {
		if pp[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("passage_parts missing sections: %s", strings.Join(missing, ", "))
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
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be one of '1'..'5'")
	}
	return nil
}

func (s *rc37Spec) Budget() Budget { return Budget{Fixer: 2, Regen: 2, Timeout: 20 * time.Second} }

// reorderParagraphs applies a "B-C-A" style pattern over [A, B, C],
// appending any unused paragraphs at the end.
func reorderParagraphs(paragraphs []string, pattern string) []string {
	for len(paragraphs) < 3 {
		paragraphs = append(paragraphs, "")
	}
	paragraphs = paragraphs[:3]

	norm := normalizePattern(pattern)
	if norm == "" {
		return paragraphs
	}
	letterToIdx := map[string]int{"A": 0, "B": 1, "C": 2}
	var ordered []string
	used := map[int]bool{}
	for _, ch := range strings.Split(norm, "-") {
		idx, ok := letterToIdx[ch]
		if !ok {
			continue
		}
		ordered = append(ordered, paragraphs[idx])
		used[idx] = true
	}
	if len(ordered) < 3 {
		for i, p := range paragraphs {
			if !used[i] {
				ordered = append(ordered, p)
			}
		}
	}
	return ordered[:3]
}

func splitIntroAndRest(passageText string) (string, string) {
	text := strings.TrimSpace(passageText)
	if text == "" {
		return "", ""
	}
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		lines := strings.Split(text, "\n")
		if len(lines) == 1 {
			return text, ""
		}
		return strings.TrimSpace(lines[0]), strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}
	return sentences[0], strings.TrimSpace(strings.Join(sentences[1:], " "))
}

func splitRestIntoThree(rest string) []string {
	if strings.TrimSpace(rest) == "" {
		return []string{"", "", ""}
	}
	sentences := splitSentences(rest)
	if len(sentences) <= 3 {
		for len(sentences) < 3 {
			sentences = append(sentences, "")
		}
		return sentences[:3]
	}
	n := len(sentences)
	base, rem := n/3, n%3
	parts := make([]string, 0, 3)
	idx := 0
	for i := 0; i < 3; i++ {
		size := base
		if i < rem {
			size++
		}
		parts = append(parts, strings.TrimSpace(strings.Join(sentences[idx:idx+size], " ")))
		idx += size
	}
	return parts
}

func (s *rc37Spec) QuoteBuildPrompt(passageText string) string {
	return "You will create an advanced paragraph-ordering reading item in QUOTE MODE.\n" +
		"Use the given PASSAGE as is. Do not reorder or paraphrase the paragraphs.\n" +
		"Your job is only to provide the JSON fields for question, intro_paragraph,\n" +
		"passage_parts (A,B,C in the GIVEN order), five options like '(B)-(C)-(A)',\n" +
		"correct_answer as a STRING digit '1'..'5', and a brief explanation.\n\n" +
		"Use the question exactly as: \"" + orderStem + "\".\n" +
		"Return ONLY JSON matching the schema.\n\n" +
		"[PASSAGE]\n" + passageText + "\n"
}

func (s *rc37Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	rawPassage := strings.TrimSpace(stringify(raw["passage"]))
	if rawPassage == "" {
		rawPassage = strings.TrimSpace(passageText)
	}

	intro := strings.TrimSpace(stringify(raw["intro_paragraph"]))
	if intro == "" && rawPassage != "" {
		if parsed, _ := parsePassageToParts(rawPassage); parsed != "" {
			intro = parsed
		}
	}

	pp := partsMap(raw["passage_parts"])
	var paragraphs []string
	if pp["(A)"] != "" && pp["(B)"] != "" && pp["(C)"] != "" {
		paragraphs = []string{pp["(A)"], pp["(B)"], pp["(C)"]}
	} else {
		intro2, parts := parsePassageToParts(rawPassage)
		if len(parts) > 0 {
			if intro == "" {
				intro = intro2
			}
			paragraphs = []string{parts["(A)"], parts["(B)"], parts["(C)"]}
		} else {
			intro3, rest := splitIntroAndRest(rawPassage)
			if intro == "" {
				intro = intro3
			}
			paragraphs = splitRestIntoThree(rest)
		}
	}

	opts := TidyOptions(raw["options"])
	ca := strings.TrimSpace(stringify(raw["correct_answer"]))
	pattern := ""
	if len(ca) == 1 && ca >= "1" && ca <= "5" {
		if idx := int(ca[0] - '1'); idx < len(opts) {
			pattern = opts[idx]
		}
	} else {
		pattern = ca
	}

	reordered := reorderParagraphs(paragraphs, pattern)
	question := strings.TrimSpace(stringify(raw["question"]))
	if question == "" {
		question = orderStem
	}
	return map[string]any{
		"question":        question,
		"intro_paragraph": intro,
		"passage_parts": map[string]any{
			"(A)": reordered[0],
			"(B)": reordered[1],
			"(C)": reordered[2],
		},
		"options":        opts,
		"correct_answer": ca,
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}, nil
}

func (s *rc37Spec) QuoteValidate(item map[string]any) error {
	return s.Validate(item)
}
