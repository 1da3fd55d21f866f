// Package passage cleans exam passages before they are fed to item
// generation. Source passages arrive with leftover answer markup from
// earlier items: underline tags, circled option markers (①~⑤), and
// bare underscore blanks. Sanitizing strips the markup while keeping
// the words, and records what was stripped so a repair step can put
// the text back into a semantically whole state.
package passage

import (
	"regexp"
	"strconv"
	"strings"
)

const circledMarks = "①②③④⑤"

var (
	circledRE      = regexp.MustCompile(`[` + circledMarks + `]`)
	circledParenRE = regexp.MustCompile(`\(\s*[` + circledMarks + `]\s*\)`)

	underlineTagRE = regexp.MustCompile(`(?i)</?(u|ins)\b[^>]*>`)
	spanUnderRE    = regexp.MustCompile(`(?i)<span\b[^>]*style=['"][^'"]*text-decoration\s*:\s*underline[^'"]*['"][^>]*>`)
	spanCloseRE    = regexp.MustCompile(`(?i)</span\s*>`)

	// Three or more underscores form a fill-in blank.
	blankRE = regexp.MustCompile(`_{3,}`)

	// A circled mark glued to the word(s) it labels, e.g. "①reflects"
	// or "② most informative". Up to seven words are captured.
	inlineMarkedRE = regexp.MustCompile(`([` + circledMarks + `])\s*([^\s)»”"',.;:()]+(?:\s+[^\s)»”"',.;:()]+){0,6})?`)

	multiSpaceRE = regexp.MustCompile(`\s{2,}`)
	blankTokenRE = regexp.MustCompile(`<<BLANK_\d+>>`)
)

// MarkedPhrase records a circled marker and the phrase it labeled.
type MarkedPhrase struct {
	Mark   string `json:"mark"`
	Phrase string `json:"phrase"`
}

// Meta describes what Sanitize removed from a passage.
type Meta struct {
	// Candidates are the phrases that carried circled markers. One of
	// them is typically the wrong word a previous item asked about.
	Candidates []MarkedPhrase

	// BlankCount is the number of underscore runs replaced with
	// <<BLANK_n>> tokens.
	BlankCount int

	// Original is the passage before any cleanup.
	Original string
}

// Sanitize strips answer markup from a passage. Underline tags and
// circled markers are removed with their text preserved, and underscore
// blanks become numbered <<BLANK_n>> tokens for the repair step to fill.
func Sanitize(text string) (string, Meta) {
	meta := Meta{Original: text}

	text = underlineTagRE.ReplaceAllString(text, "")
	text = spanUnderRE.ReplaceAllString(text, "")
	text = spanCloseRE.ReplaceAllString(text, "")

	text = circledParenRE.ReplaceAllString(text, "")

	// Drop inline markers but keep the labeled words, collecting them
	// as candidates for the semantic repair prompt.
	text = inlineMarkedRE.ReplaceAllStringFunc(text, func(m string) string {
		sub := inlineMarkedRE.FindStringSubmatch(m)
		phrase := strings.TrimSpace(sub[2])
		if phrase != "" {
			meta.Candidates = append(meta.Candidates, MarkedPhrase{Mark: sub[1], Phrase: phrase})
		}
		return phrase
	})

	// Safety net for any marker the inline pattern missed.
	text = circledRE.ReplaceAllString(text, "")

	text = blankRE.ReplaceAllStringFunc(text, func(string) string {
		meta.BlankCount++
		return blankToken(meta.BlankCount)
	})

	text = strings.TrimSpace(multiSpaceRE.ReplaceAllString(text, " "))
	return text, meta
}

// StripAnnotations sanitizes a passage and discards the metadata.
// Grammar and vocabulary items use this when they only need clean text.
func StripAnnotations(text string) string {
	clean, _ := Sanitize(text)
	return clean
}

// StripBlankTokens removes leftover <<BLANK_n>> tokens. Used as the
// fallback when semantic repair fails.
func StripBlankTokens(text string) string {
	return strings.TrimSpace(blankTokenRE.ReplaceAllString(text, ""))
}

func blankToken(n int) string {
	return "<<BLANK_" + strconv.Itoa(n) + ">>"
}
