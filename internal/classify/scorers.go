package classify

import "strings"

// Semantic scorers return a fit contribution in [0, cap] for types
// whose signal is partially lexical rather than structural.

// scoreLexicalRC30 detects word-choice evaluation passages: explicit
// lexical vocabulary, contrastive evaluation of a term, or a dense run
// of derivational forms.
func scoreLexicalRC30(txt string) float64 {
	if txt == "" {
		return 0
	}
	score := 0.0
	if lexicalMetaRE.MatchString(txt) {
		score += 0.35
	}
	if contrastEvalRE.MatchString(txt) {
		score += 0.25
	}
	if len(derivationRE.FindAllString(txt, -1)) >= 3 {
		score += 0.10
	}
	return min(score, 0.80)
}

// scoreGrammarRC29 detects explicit grammar metalanguage.
func scoreGrammarRC29(txt string) float64 {
	if txt == "" {
		return 0
	}
	score := 0.0
	if grammarMetaRE.MatchString(txt) {
		score += 0.30
	}
	return min(score, 0.55)
}

// scoreStructureRC29 estimates grammar-item suitability from sentence
// structure alone: enough clause variety to host five target forms.
func scoreStructureRC29(txt string, m passageMetrics) float64 {
	if txt == "" {
		return 0
	}
	if m.Tok < 60 || m.Tok > 260 || m.Sent < 4 {
		return 0
	}
	lc := strings.ToLower(txt)
	relHits := len(relCluesRE.FindAllString(lc, -1))
	subHits := len(subCluesRE.FindAllString(lc, -1))
	auxHits := len(auxCluesRE.FindAllString(lc, -1))

	score := 0.0
	if relHits >= 2 {
		score += 0.25
	} else if relHits == 1 {
		score += 0.15
	}
	if subHits >= 2 {
		score += 0.20
	} else if subHits == 1 {
		score += 0.10
	}
	if auxHits >= 6 {
		score += 0.15
	} else if auxHits >= 3 {
		score += 0.08
	}
	return min(score, 0.65)
}

// scoreFigurativeRC21 detects idiom shells, similes, and metaphor cue
// words. Heavy format markup discounts the score since those passages
// usually belong to a structural type.
func scoreFigurativeRC21(txt string) float64 {
	if txt == "" {
		return 0
	}
	lc := strings.ToLower(txt)

	score := 0.0
	for _, re := range idiomShellREs {
		if re.MatchString(txt) {
			score += 0.50
			break
		}
	}
	if similiRE.MatchString(txt) {
		score += 0.30
	}
	cueHits := countCueHits(metaphorCues, lc)
	if cueHits >= 2 {
		score += 0.20
	} else if cueHits == 1 {
		score += 0.10
	}
	if numBulletsRE.MatchString(txt) || insertMarkRE.MatchString(txt) || paraLabelRE.MatchString(txt) {
		score *= 0.85
	}
	return min(score, 1.0)
}
