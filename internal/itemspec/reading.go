package itemspec

import (
	"fmt"
	"regexp"
	"strings"
)

// The single-question reading variants share the MCQ layout; each gets
// its own code and system prompt, and gist types add a quote path.

func newRC18() Spec {
	return &mcqSpec{
		id: "RC18",
		system: "English exam item RC18 (Purpose). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}
}

func newRC19() Spec {
	return &mcqSpec{
		id: "RC19",
		system: "English exam item RC19 (Attitude/Tone). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}
}

func newRC20() Spec {
	return &mcqSpec{
		id: "RC20",
		system: "English exam item RC20 (Writer's Claim). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}
}

func newRC21() Spec {
	return &mcqSpec{
		id: "RC21",
		system: "English exam item RC21 (Underlined Expression Inference). Return ONLY JSON " +
			"matching the schema. Use ONLY the provided passage. The passage MUST keep its " +
			"underlined expression inside <u>...</u> tags.",
		extra: func(item map[string]any) error {
			if !strings.Contains(stringify(item["passage"]), "<u>") {
				return fmt.Errorf("passage must contain an underlined expression in <u>...</u> tags")
			}
			return nil
		},
	}
}

func newRC22() Spec {
	return &mcqSpec{
		id: "RC22",
		system: "English exam item RC22 (Main Point). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}
}

func newRC24() Spec {
	return &mcqSpec{
		id: "RC24",
		system: "English exam item RC24 (Best Title). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}
}

func newRC26() Spec {
	return &mcqSpec{
		id: "RC26",
		system: "English exam item RC26 (Factual Match). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Options must be checkable factual statements.",
	}
}

// rc23Spec is the topic-identification variant; its normalize is
// stricter than the shared MCQ pass (marker stripping, extra-field
// pruning) and it supports quote mode.
type rc23Spec struct {
	mcqSpec
}

func newRC23() Spec {
	return &rc23Spec{mcqSpec{
		id: "RC23",
		system: "English exam item RC23 (Topic). Return ONLY JSON matching the schema. " +
			"Use ONLY the provided passage. Do NOT invent or substitute a new passage.",
	}}
}

var optionMarkerRE = regexp.MustCompile(`^\s*(?:[①②③④⑤]|[1-5][\.\)\-:]?)\s*`)

func (s *rc23Spec) Normalize(raw map[string]any) (map[string]any, error) {
	x := CoerceMCQLike(raw)

	if strings.TrimSpace(stringify(x["passage"])) == "" {
		if stim := strings.TrimSpace(stringify(raw["stimulus"])); stim != "" {
			x["passage"] = stim
		}
	}
	if strings.TrimSpace(stringify(x["question"])) == "" {
		q := strings.TrimSpace(stringify(raw["question_stem"]))
		if q == "" {
			q = "Which best describes the topic of the passage?"
		}
		x["question"] = q
	}

	opts := TidyOptions(x["options"])
	if len(opts) > 5 {
		opts = opts[:5]
	}
	for i, o := range opts {
		o = optionMarkerRE.ReplaceAllString(o, "")
		opts[i] = strings.TrimSpace(regexp.MustCompile(`\s{2,}`).ReplaceAllString(o, " "))
	}
	x["options"] = opts

	if idx, err := AnswerIndex(x["correct_answer"], opts); err == nil {
		x["correct_answer"] = fmt.Sprintf("%d", idx)
	}

	for _, k := range []string{"vocabulary_difficulty", "low_frequency_words", "rationale", "stimulus", "question_stem", "metadata"} {
		delete(x, k)
	}
	return x, nil
}

func (s *rc23Spec) Validate(item map[string]any) error {
	if err := ValidateMCQ(item); err != nil {
		return err
	}
	ca := stringify(item["correct_answer"])
	if len(ca) != 1 || ca < "1" || ca > "5" {
		return fmt.Errorf("correct_answer must be a string in '1'..'5'")
	}
	for _, o := range TidyOptions(item["options"]) {
		if optionMarkerRE.MatchString(o) {
			return fmt.Errorf("options must not start with numbering or bullets")
		}
	}
	return nil
}

func (s *rc23Spec) QuoteBuildPrompt(passage string) string {
	return "You are generating a Topic Identification item from the given PASSAGE.\n" +
		"STRICT RULES:\n" +
		"- DO NOT modify or rewrite the passage. Use it only to infer the overall topic.\n" +
		"- Return JSON ONLY with keys: {\"question\",\"options\",\"correct_answer\",\"explanation\"}.\n" +
		"- question: \"Which best describes the topic of the passage?\"\n" +
		"- options: 5 short English noun phrases, no leading numbering or bullets.\n" +
		"- Exactly ONE option states the topic; distractors cover only a detail, over-generalize, or drift to an adjacent topic.\n" +
		"- correct_answer: a STRING among \"1\"..\"5\".\n" +
		"- explanation: brief, citing the passage's governing idea.\n" +
		"PASSAGE:\n" + passage
}

func (s *rc23Spec) QuotePostprocess(passage string, raw map[string]any) (map[string]any, error) {
	item := map[string]any{
		"passage":        passage,
		"question":       strings.TrimSpace(stringify(raw["question"])),
		"options":        raw["options"],
		"correct_answer": raw["correct_answer"],
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}
	if stringify(item["question"]) == "" {
		item["question"] = "Which best describes the topic of the passage?"
	}
	return s.Normalize(item)
}

func (s *rc23Spec) QuoteValidate(item map[string]any) error {
	if strings.TrimSpace(stringify(item["passage"])) == "" {
		return fmt.Errorf("quote passage must not be empty")
	}
	return s.Validate(item)
}
