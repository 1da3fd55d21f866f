package itemspec

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

// BlankMarker is the visible blank written into passages.
const BlankMarker = "_____"

const blankQuestion = "Which best fits the blank in the passage?"

var (
	longUnderscoreRE = regexp.MustCompile(`_{6,}`)
	optionJunkRE     = regexp.MustCompile(`["'“”‘’\(\)\[\]\{\}…\.]+`)
	optionSplitRE    = regexp.MustCompile(`\s*[:\-–—;]\s*`)
	multiSpaceRE     = regexp.MustCompile(`\s+`)
	underlineTagRE   = regexp.MustCompile(`(?i)</?(u|ins)\b`)
)

func hasVisibleBlank(s string) bool {
	return strings.Contains(s, BlankMarker) || strings.Contains(s, "<blank>")
}

// replaceBlankFuzzy swaps the first occurrence of span for the blank
// marker. Exact match first, then case-insensitive with loose spacing.
// Returns "" when the span cannot be located.
func replaceBlankFuzzy(text, span string) string {
	span = strings.TrimSpace(span)
	if text == "" || span == "" {
		return ""
	}
	if i := strings.Index(text, span); i >= 0 {
		return text[:i] + BlankMarker + text[i+len(span):]
	}
	pat := strings.ReplaceAll(regexp.QuoteMeta(span), `\ `, `\s+`)
	re, err := regexp.Compile(`(?i)` + pat)
	if err != nil {
		return ""
	}
	if loc := re.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + BlankMarker + text[loc[1]:]
	}
	return ""
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '?' || c == '!') && (text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\n') {
			out = append(out, strings.TrimSpace(text[start:i+1]))
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n') {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(text) {
		out = append(out, strings.TrimSpace(text[start:]))
	}
	return out
}

func blankSentenceIndex(sentences []string) int {
	for i, s := range sentences {
		if strings.Contains(s, BlankMarker) {
			return i
		}
	}
	return -1
}

var blankStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "of": true, "in": true,
	"on": true, "for": true, "and": true, "or": true, "with": true, "by": true, "from": true,
}

// condenseOption shortens an option to at most maxWords content words,
// keeping the tail after a colon or dash when present.
func condenseOption(opt string, maxWords int) string {
	s := strings.TrimSpace(opt)
	if parts := optionSplitRE.Split(s, -1); len(parts) >= 2 {
		s = strings.TrimSpace(parts[len(parts)-1])
	}
	s = optionJunkRE.ReplaceAllString(s, "")
	tokens := strings.Fields(s)
	pruned := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !blankStopwords[strings.ToLower(t)] {
			pruned = append(pruned, t)
		}
	}
	if len(pruned) == 0 {
		pruned = tokens
	}
	if len(pruned) > maxWords {
		pruned = pruned[:maxWords]
	}
	head := strings.Trim(strings.Join(pruned, " "), " ,.-–—;:")
	if head == "" && len(tokens) > 0 {
		return tokens[0]
	}
	return head
}

func tidyPhrase(s string) string {
	s = strings.TrimSpace(s)
	if parts := optionSplitRE.Split(s, -1); len(parts) >= 2 {
		s = strings.TrimSpace(parts[len(parts)-1])
	}
	s = optionJunkRE.ReplaceAllString(s, "")
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(s, " "))
}

func answerToIndex(answer any, options []string) string {
	a := StandardizeAnswer(stringify(answer))
	if len(a) == 1 && a >= "1" && a <= "5" {
		return a
	}
	for i, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), strings.TrimSpace(stringify(answer))) {
			return fmt.Sprint(i + 1)
		}
	}
	return a
}

// ---- RC31: word-level blank ----

type rc31Spec struct{}

func newRC31() Spec { return &rc31Spec{} }

func (s *rc31Spec) ID() string { return "RC31" }

func (s *rc31Spec) SystemPrompt() string {
	return "English exam item RC31 (Blank Inference, word level). " +
		"Return ONLY JSON matching the schema. Use ONLY the provided passage. " +
		"Insert exactly ONE visible blank marker as '_____'. Do not invent multiple blanks. " +
		"Options should be mostly single words or short noun phrases (2-3 words max)."
}

func (s *rc31Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC31"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc31Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	opts := TidyOptions(d["options"])
	if len(opts) > 0 && d["correct_answer"] != nil {
		d["correct_answer"] = answerToIndex(d["correct_answer"], opts)
	}

	if len(opts) == 5 {
		condensed := make([]string, 5)
		long := false
		distinct := map[string]bool{}
		for i, o := range opts {
			condensed[i] = condenseOption(o, 2)
			distinct[condensed[i]] = true
			if len(strings.Fields(o)) > 2 {
				long = true
			}
		}
		if long || len(distinct) == 5 {
			d["options"] = condensed
		}
	}

	pas := stringify(d["passage"])
	q := stringify(d["question"])
	if !hasVisibleBlank(pas) && !hasVisibleBlank(q) {
		if strings.TrimSpace(q) == "" {
			q = blankQuestion + " (" + BlankMarker + ")"
		} else {
			q = strings.TrimRight(q, " ") + " (" + BlankMarker + ")"
		}
	}
	q = strings.ReplaceAll(q, "<blank>", BlankMarker)
	q = longUnderscoreRE.ReplaceAllString(q, BlankMarker)
	if strings.Count(q, BlankMarker) > 1 {
		first := strings.Replace(q, BlankMarker, "<KEEP_ONCE>", 1)
		first = strings.ReplaceAll(first, BlankMarker, "")
		q = strings.Replace(first, "<KEEP_ONCE>", BlankMarker, 1)
	}
	d["question"] = q
	return d, nil
}

func (s *rc31Spec) Validate(item map[string]any) error {
	if err := ValidateMCQ(item); err != nil {
		return err
	}
	pas := strings.ToLower(stringify(item["passage"]))
	q := strings.ToLower(stringify(item["question"]))
	if !hasVisibleBlank(pas) && !hasVisibleBlank(q) {
		return fmt.Errorf("requires a visible blank marker (_____ or <blank>) in passage or question")
	}
	shortish := 0
	for _, o := range TidyOptions(item["options"]) {
		if len(strings.Fields(o)) <= 2 {
			shortish++
		}
	}
	if shortish < 3 {
		return fmt.Errorf("options should be mostly single words or short phrases")
	}
	return nil
}

func (s *rc31Spec) Budget() Budget { return Budget{Fixer: 2, Regen: 2, Timeout: 18 * time.Second} }

func (s *rc31Spec) QuoteBuildPrompt(passageText string) string {
	return "You are generating a blank-inference (word/phrase) reading item from the given PASSAGE.\n" +
		"RULES:\n" +
		"- DO NOT modify the passage text. DO NOT insert any blank markers yourself.\n" +
		"- Choose exactly ONE contiguous substring from the PASSAGE to blank out (call it blank_token).\n" +
		"- blank_token MUST be a real substring (case-insensitive ok) present in the PASSAGE.\n" +
		"- Produce 5 options (single words or short noun phrases, 2-3 words max). EXACTLY ONE option must correctly fill the blank.\n" +
		"- Provide correct_answer as \"1\"..\"5\" (string). The correct option MUST equal blank_token (case-insensitive).\n" +
		"- The explanation must lay out the logic of why the correct option fits best.\n" +
		"Return JSON only with keys: {\"question\",\"options\",\"blank_token\",\"correct_answer\",\"explanation\"}.\n" +
		"- \"question\" should be: \"" + blankQuestion + "\"\n" +
		"- Do not include any HTML or underline tags in any field.\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc31Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	opts, err := fiveOptions(raw["options"])
	if err != nil {
		return nil, err
	}
	ca := StandardizeAnswer(stringify(raw["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return nil, fmt.Errorf("correct_answer must be '1'..'5'")
	}
	ci := int(ca[0] - '1')

	blankTok := strings.TrimSpace(stringify(raw["blank_token"]))
	if blankTok == "" {
		return nil, fmt.Errorf("blank_token is required")
	}
	if !strings.EqualFold(strings.TrimSpace(opts[ci]), blankTok) {
		return nil, fmt.Errorf("correct option must equal blank_token (case-insensitive)")
	}

	marked := replaceBlankFuzzy(passageText, blankTok)
	if marked == "" {
		return nil, fmt.Errorf("blank_token not found in passage")
	}
	for i, o := range opts {
		opts[i] = condenseOption(o, 2)
	}
	return map[string]any{
		"passage":        marked,
		"question":       blankQuestion,
		"options":        opts,
		"correct_answer": ca,
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}, nil
}

func (s *rc31Spec) QuoteValidate(item map[string]any) error {
	pas := stringify(item["passage"])
	q := stringify(item["question"])
	if strings.Count(pas, BlankMarker) != 1 {
		return fmt.Errorf("passage must contain exactly one blank (%s)", BlankMarker)
	}
	opts := TidyOptions(item["options"])
	if len(opts) != 5 {
		return fmt.Errorf("exactly five options are required")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be '1'..'5'")
	}
	shortish := 0
	for _, o := range opts {
		if len(strings.Fields(o)) <= 2 {
			shortish++
		}
	}
	if shortish < 3 {
		return fmt.Errorf("options should be mostly single words or short phrases")
	}
	if underlineTagRE.MatchString(pas) || underlineTagRE.MatchString(q) {
		return fmt.Errorf("HTML underline tags are not allowed")
	}
	return nil
}

// ---- RC32: phrase/clause blank ----

type rc32Spec struct{}

func newRC32() Spec { return &rc32Spec{} }

func (s *rc32Spec) ID() string { return "RC32" }

func (s *rc32Spec) SystemPrompt() string {
	return "English exam item RC32 (Blank Inference, phrase/clause level). " +
		"Return ONLY JSON matching the schema. Use ONLY the provided passage. " +
		"Options should be phrase/clause-level (about 3-6 words), not single words."
}

func (s *rc32Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC32"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc32Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	opts := TidyOptions(d["options"])
	if len(opts) > 0 && d["correct_answer"] != nil {
		d["correct_answer"] = answerToIndex(d["correct_answer"], opts)
	}
	if len(opts) == 5 {
		for i, o := range opts {
			opts[i] = tidyPhrase(o)
		}
		d["options"] = opts
	}
	return d, nil
}

func (s *rc32Spec) Validate(item map[string]any) error {
	if err := ValidateMCQ(item); err != nil {
		return err
	}
	if !hasVisibleBlank(strings.ToLower(stringify(item["passage"]))) {
		return fmt.Errorf("requires a blank marker (_____ or <blank>)")
	}
	threePlus, twoPlus := 0, 0
	for _, o := range TidyOptions(item["options"]) {
		n := len(strings.Fields(o))
		if n >= 3 {
			threePlus++
		}
		if n >= 2 {
			twoPlus++
		}
	}
	if !(threePlus >= 3 || (threePlus >= 2 && twoPlus >= 4)) {
		return fmt.Errorf("options should include at least 3 phrase/clause-level candidates")
	}
	return nil
}

func (s *rc32Spec) Budget() Budget { return Budget{Fixer: 2, Regen: 2, Timeout: 18 * time.Second} }

func (s *rc32Spec) QuoteBuildPrompt(passageText string) string {
	return "You will create a Blank Inference (Phrase/Clause) reading item from the given PASSAGE.\n\n" +
		"## ABSOLUTE RULES ABOUT THE PASSAGE\n" +
		"- You MUST use the given PASSAGE exactly as it is.\n" +
		"- DO NOT rewrite, paraphrase, reorder, add, or delete any sentences.\n" +
		"- You may only replace ONE existing phrase/clause with a blank (_____).\n" +
		"- The FIRST sentence and the LAST sentence must NEVER contain the blank.\n\n" +
		"## HOW TO CHOOSE THE BLANK\n" +
		"1) Split the PASSAGE into sentences.\n" +
		"2) If the passage has 5 or more sentences, choose the blank ONLY from the 3rd, 4th, or 5th sentence.\n" +
		"3) Never put the blank in the 1st or the last sentence.\n" +
		"4) From the allowed middle sentences, choose ONE phrase or clause that ALREADY EXISTS VERBATIM\n" +
		"   and plays a clear discourse role: cause/reason, result/consequence, or contrast/turning point.\n" +
		"5) The chosen span must match exactly ONE of these surface patterns:\n" +
		"   [PATTERN A] 3rd-person singular finite clause: V-s + object/PP (e.g. \"frees the plot of its familiarity\").\n" +
		"   [PATTERN B] bare verb phrase with object (e.g. \"provide rich source materials for artists\").\n" +
		"   [PATTERN C] noun phrase naming a cause, consequence, condition, or key concept\n" +
		"   (e.g. \"coordination with traditional display techniques\").\n" +
		"6) Replace ONLY that existing phrase/clause with exactly five underscores (_____).\n" +
		"7) The removed phrase/clause (blank_text) will be the CORRECT option.\n\n" +
		"## OPTIONS (5 CHOICES)\n" +
		"- Provide exactly FIVE options. ALL options MUST share the SAME pattern type as blank_text.\n" +
		"- The CORRECT option MUST be (almost) exactly blank_text copied from the passage.\n" +
		"- The four WRONG options must be grammatically compatible but logically wrong or contextually inconsistent.\n" +
		"- Do NOT use proper names, dates, or raw numbers as options.\n\n" +
		"## OUTPUT FORMAT (STRICT JSON ONLY)\n" +
		"{\n" +
		"  \"question\": \"" + blankQuestion + "\",\n" +
		"  \"passage\": \"[original passage with EXACTLY ONE blank (_____)]\",\n" +
		"  \"options\": [\"opt1\",\"opt2\",\"opt3\",\"opt4\",\"opt5\"],\n" +
		"  \"correct_answer\": \"1\"|\"2\"|\"3\"|\"4\"|\"5\",\n" +
		"  \"blank_text\": \"[the exact phrase/clause removed from the passage]\",\n" +
		"  \"pattern_type\": \"A\"|\"B\"|\"C\",\n" +
		"  \"explanation\": \"why the correct option is best\"\n" +
		"}\n" +
		"- Do NOT output any text outside this JSON object. No markdown.\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc32Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	opts, err := fiveOptions(raw["options"])
	if err != nil {
		return nil, err
	}

	ca := StandardizeAnswer(stringify(raw["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		ca = answerToIndex(raw["correct_answer"], opts)
		if len(ca) != 1 || ca < "1" || ca > "5" {
			ca = "1"
		}
	}
	ci := int(ca[0] - '1')
	correctOpt := strings.TrimSpace(opts[ci])

	blankText := strings.TrimSpace(stringify(raw["blank_text"]))
	if blankText == "" {
		blankText = correctOpt
	}

	p := replaceBlankFuzzy(passageText, blankText)
	if p == "" {
		p = replaceBlankFuzzy(passageText, correctOpt)
	}
	if p == "" {
		if lp := strings.TrimSpace(stringify(raw["passage"])); strings.Contains(lp, BlankMarker) {
			p = lp
		} else {
			return nil, fmt.Errorf("cannot locate the blank span in the passage")
		}
	}
	if n := strings.Count(p, BlankMarker); n != 1 {
		return nil, fmt.Errorf("passage must contain exactly one blank, found %d", n)
	}
	for i, o := range opts {
		opts[i] = strings.TrimSpace(o)
	}
	return map[string]any{
		"question":       blankQuestion,
		"passage":        p,
		"options":        opts,
		"correct_answer": ca,
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}, nil
}

func (s *rc32Spec) QuoteValidate(item map[string]any) error {
	return validateBlankQuote(item)
}

// ---- RC33: high-difficulty clause blank ----

type rc33Spec struct{}

func newRC33() Spec { return &rc33Spec{} }

func (s *rc33Spec) ID() string { return "RC33" }

func (s *rc33Spec) SystemPrompt() string {
	return "English exam item RC33 (high-difficulty clause blank). " +
		"Return ONLY JSON matching the schema. Use ONLY the provided passage."
}

func (s *rc33Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC33"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc33Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	opts := TidyOptions(d["options"])
	if len(opts) > 0 && d["correct_answer"] != nil {
		ca := answerToIndex(d["correct_answer"], opts)
		if len(ca) != 1 || ca < "1" || ca > "5" {
			ca = "1"
		}
		d["correct_answer"] = ca
	}
	return d, nil
}

func (s *rc33Spec) Validate(item map[string]any) error {
	if err := ValidateMCQ(item); err != nil {
		return err
	}
	if !hasVisibleBlank(strings.ToLower(stringify(item["passage"]))) {
		return fmt.Errorf("requires a blank marker (_____ or <blank>)")
	}
	opts := TidyOptions(item["options"])
	total := 0
	for _, o := range opts {
		total += len(strings.Fields(o))
	}
	if len(opts) > 0 && float64(total)/float64(len(opts)) < 3.0 {
		return fmt.Errorf("options should be complex enough (avg length >= 3 words)")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be an index string '1'..'5'")
	}
	return nil
}

func (s *rc33Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 15 * time.Second} }

// shrinkSpanToWindow trims an overlong span to the first contiguous
// word window of 6-18 words that still occurs verbatim in the passage.
func shrinkSpanToWindow(passageText, span string, minWords, maxWords int) string {
	if span == "" {
		return span
	}
	words := strings.Fields(span)
	wc := len(words)
	if wc <= maxWords {
		return span
	}
	for window := maxWords; window >= minWords; window-- {
		if window > wc {
			continue
		}
		for start := 0; start <= wc-window; start++ {
			cand := strings.Join(words[start:start+window], " ")
			if strings.Contains(passageText, cand) {
				return cand
			}
		}
	}
	return span
}

func (s *rc33Spec) QuoteBuildPrompt(passageText string) string {
	return "You will create ONE high-level clause-blank reading item from the given PASSAGE.\n\n" +
		"============================\n" +
		"ABSOLUTE RULES ABOUT PASSAGE\n" +
		"============================\n" +
		"1) You MUST use the given PASSAGE exactly as it is.\n" +
		"   - Do NOT rewrite, paraphrase, summarize, reorder, add, or delete sentences.\n" +
		"   - You may ONLY replace ONE existing clause/short sentence with a blank.\n" +
		"2) The blank marker MUST be exactly five underscores: _____\n" +
		"3) The passage you output must be identical to the original PASSAGE except\n" +
		"   for that ONE clause/short sentence being replaced by '_____'.\n\n" +
		"============================\n" +
		"HOW TO CHOOSE THE BLANK\n" +
		"============================\n" +
		"A. Identify a single clause or short sentence that ALREADY EXISTS in the PASSAGE and:\n" +
		"   1) is a single clause/phrase of ideally 6-18 words, no semicolons, at most one comma;\n" +
		"   2) has a grammatical form that can anchor five parallel options\n" +
		"      (e.g. \"allow the colony to regulate its workforce\");\n" +
		"   3) semantically summarizes, defines, or evaluates the passage as a whole.\n" +
		"B. Replace ONLY that chosen clause/phrase with '_____'. Exactly ONE blank in the final passage.\n\n" +
		"============================\n" +
		"OPTIONS (5 CHOICES)\n" +
		"============================\n" +
		"- All options share the same grammatical pattern as blank_text and fit the blank grammatically.\n" +
		"- The correct option is the exact blank_text from the passage.\n" +
		"- The 4 distractors reuse key vocabulary but twist or partially distort the overall meaning.\n\n" +
		"============================\n" +
		"OUTPUT FORMAT (STRICT JSON ONLY)\n" +
		"============================\n" +
		"{\n" +
		"  \"question\": \"" + blankQuestion + "\",\n" +
		"  \"passage\": \"[original passage with EXACTLY ONE '_____']\",\n" +
		"  \"options\": [\"option1\",\"option2\",\"option3\",\"option4\",\"option5\"],\n" +
		"  \"correct_answer\": \"the EXACT string of the correct option (must equal one of options)\",\n" +
		"  \"blank_text\": \"the EXACT clause/phrase removed from the passage\",\n" +
		"  \"explanation\": \"a short explanation\"\n" +
		"}\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc33Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	opts, err := fiveOptions(raw["options"])
	if err != nil {
		return nil, err
	}

	caRaw := strings.TrimSpace(stringify(raw["correct_answer"]))
	blankText := strings.TrimSpace(stringify(raw["blank_text"]))

	correctText := blankText
	if correctText == "" {
		if caRaw != "" && !(len(caRaw) == 1 && caRaw >= "1" && caRaw <= "5") {
			correctText = caRaw
		} else {
			correctText = strings.TrimSpace(opts[0])
		}
	}
	correctText = shrinkSpanToWindow(passageText, correctText, 6, 18)

	correctIdx := 0
	for i, o := range opts {
		if strings.TrimSpace(o) == correctText {
			correctIdx = i
			break
		}
	}
	opts[correctIdx] = correctText

	p := replaceBlankFuzzy(passageText, correctText)
	if p == "" && blankText != "" {
		p = replaceBlankFuzzy(passageText, blankText)
	}
	if p == "" {
		if lp := strings.TrimSpace(stringify(raw["passage"])); strings.Contains(lp, BlankMarker) {
			p = lp
		} else {
			return nil, fmt.Errorf("cannot locate the blank span in the passage")
		}
	}
	if n := strings.Count(p, BlankMarker); n != 1 {
		return nil, fmt.Errorf("passage must contain exactly one blank, found %d", n)
	}
	for i, o := range opts {
		opts[i] = strings.TrimSpace(o)
	}
	return map[string]any{
		"question":       blankQuestion,
		"passage":        p,
		"options":        opts,
		"correct_answer": fmt.Sprint(correctIdx + 1),
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}, nil
}

func (s *rc33Spec) QuoteValidate(item map[string]any) error {
	return validateBlankQuote(item)
}

// ---- RC34: pivot-blank, the generic reading fallback ----

type rc34Spec struct{}

func newRC34() Spec { return &rc34Spec{} }

func (s *rc34Spec) ID() string { return "RC34" }

func (s *rc34Spec) SystemPrompt() string {
	return "You are an expert English exam item writer. " +
		"Return ONLY valid JSON matching the schema for blank-inference items. " +
		"Use ONLY the provided passage when one is given; do NOT invent or rewrite it."
}

func (s *rc34Spec) BuildPrompt(ctx GenContext) string {
	// Without a passage the template generates passage and item together.
	return prompts.Generate(orDefault(ctx.ItemID, "RC34"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc34Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := make(map[string]any, len(raw))
	for k, v := range raw {
		d[k] = v
	}
	d["passage"] = strings.TrimSpace(stringify(d["passage"]))
	d["question"] = strings.TrimSpace(stringify(d["question"]))
	d["options"] = TidyOptions(d["options"])
	ans := d["correct_answer"]
	if ans == nil {
		ans = d["answer"]
	}
	d["correct_answer"] = StandardizeAnswer(stringify(ans))
	exp := strings.TrimSpace(stringify(d["explanation"]))
	if exp == "" {
		exp = strings.TrimSpace(stringify(d["rationale"]))
	}
	d["explanation"] = exp
	delete(d, "rationale")
	return d, nil
}

func (s *rc34Spec) Validate(item map[string]any) error {
	return ValidateMCQ(item)
}

func (s *rc34Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 12 * time.Second} }

// Repair fills an empty passage from the source text. A missing blank
// marker is left for the self-check stage to catch.
func (s *rc34Spec) Repair(item map[string]any, ctx GenContext) map[string]any {
	d := make(map[string]any, len(item))
	for k, v := range item {
		d[k] = v
	}
	if ctx.Passage != "" && strings.TrimSpace(stringify(d["passage"])) == "" {
		d["passage"] = ctx.Passage
	}
	return d
}

func (s *rc34Spec) QuoteBuildPrompt(passageText string) string {
	return "You will create a High-difficulty Blank (Phrase/Clause) reading item from the given PASSAGE.\n\n" +
		"## ABSOLUTE RULES ABOUT THE PASSAGE\n" +
		"- You MUST use the given PASSAGE exactly as it is.\n" +
		"- DO NOT rewrite, paraphrase, reorder, add, or delete any sentences.\n" +
		"- You may only replace ONE existing phrase/clause with a blank (_____).\n" +
		"- The FIRST sentence and the LAST sentence must NEVER contain the blank.\n\n" +
		"## HOW TO CHOOSE THE BLANK\n" +
		"1) Split the PASSAGE into sentences.\n" +
		"2) Choose the blank ONLY from a middle sentence, never from the first or the last.\n" +
		"3) The blanked span must:\n" +
		"   (a) ALREADY EXIST VERBATIM in the passage (do NOT invent new text),\n" +
		"   (b) have a length of about 7-15 words, and\n" +
		"   (c) be a COMPLETE CLAUSE or a NOUN PHRASE that serves as a full constituent.\n" +
		"4) Semantically, the blanked span MUST play a PIVOT ROLE in the discourse:\n" +
		"   contrast/turning point, cause-effect/result, or abstract summary of previous content.\n" +
		"   Removing this span should make the overall logical flow significantly harder to grasp.\n" +
		"5) Replace ONLY that chosen span with exactly five underscores (_____).\n" +
		"6) The removed span (blank_text) will be the CORRECT option.\n\n" +
		"## OPTIONS (5 CHOICES)\n" +
		"- Provide exactly FIVE options, all grammatically compatible with the blank's sentence frame.\n" +
		"- The CORRECT option MUST be (almost) exactly the removed span (do NOT paraphrase).\n" +
		"- The four WRONG options must be similar in length (roughly 7-15 words), grammatically\n" +
		"  acceptable locally, but inconsistent with the global meaning of the passage.\n\n" +
		"## OUTPUT FORMAT (STRICT JSON ONLY)\n" +
		"{\n" +
		"  \"question\": \"" + blankQuestion + "\",\n" +
		"  \"passage\": \"[original passage with EXACTLY ONE blank (_____)]\",\n" +
		"  \"options\": [\"opt1\",\"opt2\",\"opt3\",\"opt4\",\"opt5\"],\n" +
		"  \"correct_answer\": \"1\"|\"2\"|\"3\"|\"4\"|\"5\",\n" +
		"  \"blank_text\": \"[the exact phrase/clause removed from the passage]\",\n" +
		"  \"explanation\": \"why the correct option is best\"\n" +
		"}\n" +
		"- Do NOT output any text outside this JSON object. No markdown.\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc34Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	opts, err := fiveOptions(raw["options"])
	if err != nil {
		return nil, err
	}
	ca := StandardizeAnswer(stringify(raw["correct_answer"]))
	if len(ca) != 1 || ca < "1" || ca > "5" {
		ca = answerToIndex(raw["correct_answer"], opts)
		if len(ca) != 1 || ca < "1" || ca > "5" {
			ca = "1"
		}
	}
	ci := int(ca[0] - '1')
	correctOpt := strings.TrimSpace(opts[ci])

	blankText := strings.TrimSpace(stringify(raw["blank_text"]))
	if blankText == "" {
		blankText = correctOpt
	}

	p := replaceBlankFuzzy(passageText, blankText)
	if p == "" {
		p = replaceBlankFuzzy(passageText, correctOpt)
	}
	if p == "" {
		if lp := strings.TrimSpace(stringify(raw["passage"])); strings.Contains(lp, BlankMarker) {
			p = lp
		} else {
			return nil, fmt.Errorf("cannot locate the blank span in the passage")
		}
	}
	if n := strings.Count(p, BlankMarker); n != 1 {
		return nil, fmt.Errorf("passage must contain exactly one blank, found %d", n)
	}

	sentences := splitSentences(p)
	idx := blankSentenceIndex(sentences)
	if idx == -1 {
		return nil, fmt.Errorf("cannot locate blank in sentence split")
	}
	if n := len(sentences); n >= 3 && (idx == 0 || idx == n-1) {
		return nil, fmt.Errorf("blank must not be in the first or last sentence (found at %d/%d)", idx+1, n)
	}

	question := strings.TrimSpace(stringify(raw["question"]))
	if question == "" {
		question = blankQuestion
	}
	for i, o := range opts {
		opts[i] = strings.TrimSpace(o)
	}
	return map[string]any{
		"question":       question,
		"passage":        p,
		"options":        opts,
		"correct_answer": ca,
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}, nil
}

func (s *rc34Spec) QuoteValidate(item map[string]any) error {
	if err := validateBlankQuote(item); err != nil {
		return err
	}
	sentences := splitSentences(stringify(item["passage"]))
	idx := blankSentenceIndex(sentences)
	if n := len(sentences); n >= 3 && (idx == 0 || idx == n-1) {
		return fmt.Errorf("blank must not be in the first or last sentence (found at %d/%d)", idx+1, n)
	}
	return nil
}

// validateBlankQuote is the thin shared check for quote-mode blank items.
func validateBlankQuote(item map[string]any) error {
	p := stringify(item["passage"])
	if n := strings.Count(p, BlankMarker); n != 1 {
		return fmt.Errorf("passage must contain exactly one blank marker, found %d", n)
	}
	if len(TidyOptions(item["options"])) != 5 {
		return fmt.Errorf("exactly 5 options are required")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be '1'..'5'")
	}
	return nil
}

func fiveOptions(v any) ([]string, error) {
	opts := TidyOptions(v)
	if len(opts) > 5 {
		opts = opts[:5]
	}
	if len(opts) != 5 {
		return nil, fmt.Errorf("options must have exactly 5 items")
	}
	return append([]string(nil), opts...), nil
}
