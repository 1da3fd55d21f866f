package prompts

import (
	"regexp"
	"strings"
)

// PassageToken marks where a template wants the passage spliced in.
const PassageToken = "<PASSAGE>"

// passageFence is the fenced-block header a template uses when it
// already carries its own passage section.
const passageFence = "```passage"

// WithPassage injects the passage into a built prompt. Templates that
// carry the PassageToken get it replaced in place; otherwise a fenced
// passage block is appended. Empty passages leave the prompt untouched.
func WithPassage(prompt, passage string) string {
	if strings.Contains(prompt, PassageToken) {
		return strings.Replace(prompt, PassageToken, passage, 1)
	}
	if strings.TrimSpace(passage) == "" {
		return prompt
	}
	if strings.Contains(prompt, passageFence) {
		return prompt
	}
	return prompt + "\n\n---\nUse this passage ONLY:\n```passage\n" + passage + "\n```"
}

// HasPassageBlock reports whether a built prompt already carries a
// passage, either as a fenced block or an unexpanded token.
func HasPassageBlock(prompt string) bool {
	return strings.Contains(prompt, passageFence) || strings.Contains(prompt, PassageToken)
}

// DefaultSystem is the fallback system prompt for item generation when
// a specification does not declare its own.
const DefaultSystem = "You are a careful exam-item writer. " +
	"Use ONLY the provided passage; do not invent or substitute a new passage. " +
	"Return ONLY a valid JSON object matching the requested fields."

// GeneratorSystem is the system prompt for quote-mode calls, where the
// model must leave the passage itself untouched.
const GeneratorSystem = "You are a careful JSON-only generator. Return JSON only."

var newPassageRE = []*regexp.Regexp{
	regexp.MustCompile(`(?i)here is a passage`),
	regexp.MustCompile(`(?i)new passage`),
	regexp.MustCompile(`(?i)consider the following text`),
	regexp.MustCompile(`(?im)^passage:\s*$`),
}

// LooksLikeNewPassage flags model output that appears to introduce its
// own passage instead of reusing the supplied one.
func LooksLikeNewPassage(text string) bool {
	for _, re := range newPassageRE {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DefaultRepairInstruction tells the fixer call what it may change.
const DefaultRepairInstruction = "Fix ONLY the reported problems. " +
	"Keep every other field exactly as it was. Return the full corrected JSON object."
