package itemspec

import (
	"fmt"
	"regexp"
	"strings"
)

var sentenceEndRE = regexp.MustCompile(`[.!?]$`)

// sentenceLikeOptions loosely checks that most options read as full
// statements rather than fragments.
func sentenceLikeOptions(item map[string]any) error {
	count := 0
	for _, o := range TidyOptions(item["options"]) {
		o = strings.TrimSpace(o)
		if (len(strings.Fields(o)) >= 4 || len(o) >= 8) && sentenceEndRE.MatchString(o) {
			count++
		}
	}
	if count < 3 {
		return fmt.Errorf("options should be sentence-like statements, not fragments")
	}
	return nil
}

// noticeSpec covers the notice match/mismatch pair. Quote mode keeps
// the notice layout byte-for-byte and only generates the apparatus.
type noticeSpec struct {
	mcqSpec
	mismatch bool
}

func newRC27() Spec {
	s := &noticeSpec{mismatch: true}
	s.id = "RC27"
	s.system = "English exam item RC27 (Notice Mismatch). Return ONLY JSON matching the schema. " +
		"Use ONLY the provided passage."
	s.extra = sentenceLikeOptions
	return s
}

func newRC28() Spec {
	s := &noticeSpec{}
	s.id = "RC28"
	s.system = "English exam item RC28 (Notice Match). Return ONLY JSON matching the schema. " +
		"Use ONLY the provided passage."
	s.extra = sentenceLikeOptions
	return s
}

func (s *noticeSpec) defaultQuestion() string {
	if s.mismatch {
		return "Which statement does <u>NOT</u> agree with the notice?"
	}
	return "Which statement agrees with the notice?"
}

func (s *noticeSpec) QuoteBuildPrompt(passage string) string {
	task := "Exactly 1 option MUST be factually inconsistent with the PASSAGE; the other 4 MUST be consistent."
	if !s.mismatch {
		task = "Exactly 1 option MUST be factually consistent with the PASSAGE; the other 4 MUST be inconsistent."
	}
	return "You are generating a notice-based multiple-choice item from a NOTICE/ANNOUNCEMENT style PASSAGE.\n" +
		"\n" +
		"READ-ONLY PASSAGE RULES (VERY IMPORTANT):\n" +
		"- The PASSAGE is already formatted as a notice.\n" +
		"- You MUST NOT modify, paraphrase, reflow, or recreate the PASSAGE in any way.\n" +
		"- Do NOT rewrite the dividers, labels, or line breaks.\n" +
		"- You will NOT output the passage text in your JSON; it is injected externally as-is.\n" +
		"\n" +
		"PASSAGE FORMAT (FOR YOUR UNDERSTANDING ONLY):\n" +
		"- A divider line of '=' repeated 40+ times, the event title in ALL CAPS, another divider.\n" +
		"- Labeled lines in this order: Title:, Date:, Location:, Eligibility:, Registration:, Fee:, Contact:, Note:.\n" +
		"- A closing divider identical to the others.\n" +
		"\n" +
		"OUTPUT KEYS (JSON ONLY): {\"question\",\"options\",\"correct_answer\",\"explanation\"}.\n" +
		"- question: must end with the phrasing \"" + s.defaultQuestion() + "\".\n" +
		"- options: exactly 5 full-sentence statements summarizing details of the notice\n" +
		"  (event name, dates, venue, eligibility, fee, registration, special notes).\n" +
		"- " + task + "\n" +
		"- Do NOT add leading numbering or bullets to options.\n" +
		"- correct_answer: a STRING among \"1\"..\"5\".\n" +
		"- No markdown formatting (#, **, -, *) in any field.\n" +
		"\n" +
		"PASSAGE (READ ONLY — DO NOT OUTPUT OR EDIT THIS TEXT):\n" + passage
}

func (s *noticeSpec) QuotePostprocess(passage string, raw map[string]any) (map[string]any, error) {
	question := strings.TrimSpace(stringify(raw["question"]))
	if question == "" {
		question = s.defaultQuestion()
	}
	item := map[string]any{
		"passage":        passage,
		"question":       question,
		"options":        raw["options"],
		"correct_answer": strings.TrimSpace(stringify(raw["correct_answer"])),
		"explanation":    strings.TrimSpace(stringify(raw["explanation"])),
	}
	return s.Normalize(item)
}

func (s *noticeSpec) QuoteValidate(item map[string]any) error {
	if strings.TrimSpace(stringify(item["passage"])) == "" {
		return fmt.Errorf("quote passage must not be empty")
	}
	if len(TidyOptions(item["options"])) != 5 {
		return fmt.Errorf("exactly 5 options required")
	}
	return s.Validate(item)
}
