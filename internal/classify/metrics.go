package classify

import (
	"regexp"
	"strings"
)

// Length bands. Short passages stay in the single-item range, medium
// passages unlock ordering/insertion/summary types, and long passages
// additionally allow set types.
const (
	BandUptoRC33 = "upto_rc33"
	BandUptoRC40 = "upto_rc40"
	BandRC41Plus = "rc41_plus"
)

// lengthBand maps a whitespace token count to its band.
func lengthBand(tokens int) string {
	if tokens <= 150 {
		return BandUptoRC33
	}
	if tokens < 200 {
		return BandUptoRC40
	}
	return BandRC41Plus
}

// allowByLength is the per-band whitelist. Detection, evergreen
// injection and boosting all pass through these sets.
var allowByLength = map[string]map[string]bool{
	BandUptoRC33: toSet(
		"RC18", "RC19", "RC20", "RC21", "RC22", "RC23", "RC24",
		"RC25", "RC26",
		"RC27", "RC28", "RC29", "RC30",
		"RC31", "RC32", "RC33",
	),
	BandUptoRC40: toSet(
		"RC18", "RC19", "RC20", "RC21", "RC22", "RC23", "RC24",
		"RC25", "RC26", "RC27", "RC28", "RC29", "RC30",
		"RC31", "RC32", "RC33", "RC34", "RC35", "RC36", "RC37", "RC38", "RC39", "RC40",
	),
	BandRC41Plus: toSet(
		"RC18", "RC19", "RC20", "RC21", "RC22", "RC23", "RC24",
		"RC25", "RC26", "RC27", "RC28", "RC29", "RC30",
		"RC31", "RC32", "RC33", "RC34", "RC35", "RC36", "RC37", "RC38", "RC39", "RC40",
		"RC41", "RC42",
	),
}

func toSet(types ...string) map[string]bool {
	s := make(map[string]bool, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

func allowedForBand(band string) map[string]bool {
	if s, ok := allowByLength[band]; ok {
		return s
	}
	return allowByLength[BandUptoRC33]
}

// passageMetrics are the lightweight counts the rule scorer keys off.
type passageMetrics struct {
	Tok        int
	Sent       int
	Paras      int
	TTR        float64
	AvgLen     float64
	DMCount    int
	DeicticCnt int
	NumCount   int
	ProperLike int
}

var (
	wordTokenRE  = regexp.MustCompile(`[A-Za-z]+(?:['-][A-Za-z]+)?|\d+%?`)
	sentenceRE   = regexp.MustCompile(`[.!?]+(?:\s|$)`)
	bigNumberRE  = regexp.MustCompile(`\b\d{2,4}(?:%|[.,]?\d+)?\b`)
	unitRE       = regexp.MustCompile(`(?i)\b(?:km|kg|cm|mm|°c|°f|mph|percent|percentages?)\b`)
	properLikeRE = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?\b`)
	alphaStartRE = regexp.MustCompile(`^[A-Za-z]`)
)

var discourseMarkers = toSet(
	"however", "nevertheless", "nonetheless", "instead", "rather",
	"therefore", "thus", "consequently", "hence", "as a result",
	"moreover", "furthermore", "in", "in addition", "for example", "for instance",
)

var deictics = toSet(
	"this", "that", "these", "those", "it", "they", "which", "whose", "where", "when",
)

func basicCounts(text string) passageMetrics {
	t := strings.TrimSpace(text)
	tokens := wordTokenRE.FindAllString(t, -1)

	m := passageMetrics{
		Tok:   len(tokens),
		Sent:  max(1, len(sentenceRE.FindAllString(t, -1))),
		Paras: max(1, strings.Count(t, "\n\n")+1),
	}

	var lower []string
	for _, w := range tokens {
		if alphaStartRE.MatchString(w) {
			lower = append(lower, strings.ToLower(w))
		}
	}
	uniq := make(map[string]bool, len(lower))
	for _, w := range lower {
		uniq[w] = true
		if discourseMarkers[w] {
			m.DMCount++
		}
		if deictics[w] {
			m.DeicticCnt++
		}
	}
	if len(lower) > 0 {
		m.TTR = float64(len(uniq)) / float64(len(lower))
	}

	m.AvgLen = float64(m.Tok) / float64(max(1, m.Sent))
	m.NumCount = len(bigNumberRE.FindAllString(t, -1)) + len(unitRE.FindAllString(t, -1))
	m.ProperLike = len(properLikeRE.FindAllString(t, -1))
	return m
}
