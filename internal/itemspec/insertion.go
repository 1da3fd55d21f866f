package itemspec

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/itemforge/internal/prompts"
)

const (
	rc35Stem      = "Which sentence does <u>not</u> fit the overall flow of the passage?"
	insertionStem = "Considering the flow, where is the best place for the given sentence?"
)

var (
	firstCircledRE = regexp.MustCompile(`[①②③④⑤]`)
	bareDigitRE    = regexp.MustCompile(`\b([1-5])\b`)
)

// insertionAnswer extracts a '1'..'5' digit from labels, digits, or
// text mentioning either.
func insertionAnswer(a any) string {
	s := strings.TrimSpace(stringify(a))
	if d := circledToDigit(s); d != s {
		return d
	}
	if len(s) == 1 && s >= "1" && s <= "5" {
		return s
	}
	if m := firstCircledRE.FindString(s); m != "" {
		return circledToDigit(m)
	}
	if m := bareDigitRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// ---- RC35: irrelevant sentence ----

type rc35Spec struct{}

func newRC35() Spec { return &rc35Spec{} }

func (s *rc35Spec) ID() string { return "RC35" }

func (s *rc35Spec) SystemPrompt() string {
	return "English exam item RC35 (irrelevant sentence: 5 numbered sentences). " +
		"Create a passage consisting of EXACTLY five sentences labeled ① to ⑤. " +
		"Write the question EXACTLY as: '" + rc35Stem + "'. " +
		"Set options EXACTLY to ['①','②','③','④','⑤']. " +
		"Set correct_answer to a STRING digit '1'..'5' (NOT a label). " +
		"Explain briefly why the chosen sentence is unrelated to the overall flow. " +
		"Return ONLY JSON matching the schema."
}

func (s *rc35Spec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, "RC35"), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *rc35Spec) Normalize(raw map[string]any) (map[string]any, error) {
	d := make(map[string]any, len(raw))
	for k, v := range raw {
		d[k] = v
	}
	for _, k := range []string{"question", "explanation", "rationale", "passage"} {
		if sv, ok := d[k].(string); ok {
			d[k] = strings.TrimSpace(sv)
		}
	}
	d["options"] = append([]string(nil), circledLabels...)
	d["correct_answer"] = circledToDigit(strings.TrimSpace(stringify(d["correct_answer"])))
	return d, nil
}

func (s *rc35Spec) Validate(item map[string]any) error {
	if err := validateSchema(mcqSchema, item); err != nil {
		return err
	}
	// stem match ignores spacing differences
	q := strings.ReplaceAll(stringify(item["question"]), " ", "")
	if q != strings.ReplaceAll(rc35Stem, " ", "") {
		return fmt.Errorf("question must be exactly %q", rc35Stem)
	}
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be exactly ['①','②','③','④','⑤']")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be a string digit from '1' to '5'")
	}
	if !hasAllLabels(stringify(item["passage"]), circledLabels) {
		return fmt.Errorf("passage must contain all numbered markers ① to ⑤")
	}
	if strings.TrimSpace(stringify(item["explanation"])) == "" {
		return fmt.Errorf("explanation is required")
	}
	return nil
}

func (s *rc35Spec) Budget() Budget { return Budget{Fixer: 1, Regen: 1, Timeout: 18 * time.Second} }

func (s *rc35Spec) QuoteBuildPrompt(passageText string) string {
	return "You will create an irrelevant-sentence reading item in QUOTE MODE.\n\n" +
		"## ABSOLUTE RULES ABOUT THE PASSAGE\n" +
		"- You MUST use the given PASSAGE exactly as it is.\n" +
		"- Do NOT delete, reorder, or paraphrase sentences outside the 5 chosen ones.\n" +
		"- Choose FIVE CONSECUTIVE sentences from the PASSAGE.\n" +
		"- Prepend each of the chosen five sentences with a circled numeral label in order:\n" +
		"  ①, ②, ③, ④, ⑤.\n" +
		"- The sentences BEFORE or AFTER this block must remain unchanged (no labels).\n\n" +
		"## HOW TO CREATE THE IRRELEVANT SENTENCE\n" +
		"1) Among the five labeled sentences, modify the content of EXACTLY ONE sentence\n" +
		"   so that it becomes IRRELEVANT to the overall flow and main topic of the passage.\n" +
		"2) The modified sentence must still be grammatical and natural in isolation, but it should\n" +
		"   break the logical flow, be off-topic, or contradict the main idea.\n" +
		"3) The OTHER FOUR sentences must remain consistent with the original passage's topic and flow.\n" +
		"4) Do NOT change the order of the five sentences; only the content of one sentence is edited.\n\n" +
		"## QUESTION & OPTIONS\n" +
		"- Use the question EXACTLY as: \"" + rc35Stem + "\".\n" +
		"- Set options EXACTLY to: ['①','②','③','④','⑤'].\n" +
		"- Set correct_answer to a STRING digit '1'..'5' matching the label of the irrelevant sentence.\n\n" +
		"## OUTPUT FORMAT (STRICT JSON ONLY)\n" +
		"{\n" +
		"  \"question\": \"" + rc35Stem + "\",\n" +
		"  \"passage\": \"[full passage with the five labeled sentences embedded in place]\",\n" +
		"  \"options\": [\"①\",\"②\",\"③\",\"④\",\"⑤\"],\n" +
		"  \"correct_answer\": \"1\"|\"2\"|\"3\"|\"4\"|\"5\",\n" +
		"  \"explanation\": \"why that sentence is unrelated\",\n" +
		"  \"rationale\": \"optional short notes on the construction, or empty string\"\n" +
		"}\n\n" +
		"- Do NOT output anything outside this JSON object (no markdown, no comments).\n\n" +
		"PASSAGE:\n" + passageText
}

func (s *rc35Spec) QuotePostprocess(passageText string, raw map[string]any) (map[string]any, error) {
	p := strings.TrimSpace(stringify(raw["passage"]))
	if p == "" {
		p = passageText
	}
	if !hasAllLabels(p, circledLabels) {
		return nil, fmt.Errorf("passage must contain all labels ① to ⑤")
	}
	ca := circledToDigit(strings.TrimSpace(stringify(raw["correct_answer"])))
	item := map[string]any{
		"question":       rc35Stem,
		"passage":        p,
		"options":        append([]string(nil), circledLabels...),
		"correct_answer": ca,
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}
	if r := strings.TrimSpace(stringify(raw["rationale"])); r != "" {
		item["rationale"] = r
	}
	return item, nil
}

func (s *rc35Spec) QuoteValidate(item map[string]any) error {
	return s.Validate(item)
}

// ---- RC38/RC39: sentence insertion ----

// insertionSpec backs both insertion variants; RC39 is the
// argumentative, pivot-sentence version of RC38.
type insertionSpec struct {
	id       string
	advanced bool
}

func newRC38() Spec { return &insertionSpec{id: "RC38"} }
func newRC39() Spec { return &insertionSpec{id: "RC39", advanced: true} }

func (s *insertionSpec) ID() string { return s.id }

func (s *insertionSpec) SystemPrompt() string {
	kind := "Sentence Insertion"
	explain := "why the position fits"
	if s.advanced {
		kind = "Advanced Sentence Insertion"
		explain = "why that position fits (cohesion, reference, discourse markers, cause/effect, etc.)"
	}
	return "English exam item " + s.id + " (" + kind + ", ① to ⑤ markers).\n" +
		"Return ONLY a single JSON object with fields:\n" +
		"{" +
		"\"question\": \"" + insertionStem + "\", " +
		"\"given_sentence\": \"<the sentence to insert>\", " +
		"\"passage\": \"<text containing markers ( ① )...( ⑤ )>\", " +
		"\"options\": [\"①\",\"②\",\"③\",\"④\",\"⑤\"], " +
		"\"correct_answer\": \"1|2|3|4|5\", " +
		"\"explanation\": \"<" + explain + ">\"" +
		"}\n" +
		"Rules: No markdown, no code fences, no comments, no trailing commas; strings must be valid JSON strings. " +
		"Use ONLY the provided passage. Do NOT invent or substitute a new passage."
}

func (s *insertionSpec) BuildPrompt(ctx GenContext) string {
	return prompts.Generate(orDefault(ctx.ItemID, s.id), orDefault(ctx.Difficulty, "medium"), orDefault(ctx.Topic, "random"), ctx.Passage)
}

func (s *insertionSpec) Normalize(raw map[string]any) (map[string]any, error) {
	d := CoerceMCQLike(raw)
	for _, k := range []string{"question", "given_sentence", "passage", "explanation"} {
		d[k] = strings.TrimSpace(stringify(d[k]))
	}
	d["options"] = append([]string(nil), circledLabels...)
	d["correct_answer"] = insertionAnswer(d["correct_answer"])
	return d, nil
}

func (s *insertionSpec) Validate(item map[string]any) error {
	if err := validateSchema(insertionSchema, item); err != nil {
		return err
	}
	if len(stringify(item["given_sentence"])) < 3 {
		return fmt.Errorf("requires a non-empty given_sentence")
	}
	if !hasAllLabels(stringify(item["passage"]), circledLabels) {
		return fmt.Errorf("passage must contain all position markers ① to ⑤")
	}
	if !equalStrings(TidyOptions(item["options"]), circledLabels) {
		return fmt.Errorf("options must be exactly ['①','②','③','④','⑤']")
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be one of '1'..'5'")
	}
	return nil
}

func (s *insertionSpec) Budget() Budget { return Budget{Fixer: 1, Regen: 2, Timeout: 15 * time.Second} }
