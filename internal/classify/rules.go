package classify

import (
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/abhisek/itemforge/internal/passage"
)

// Evergreen types work on almost any passage, so they are injected as
// baseline candidates whenever the length band allows them. Strong
// format signals suppress the small baseline boost.
var evergreenTypes = []string{"RC22", "RC23", "RC24", "RC40", "RC30", "RC41", "RC42"}

var evergreenBaseFit = map[string]float64{
	"RC22": 0.46, "RC23": 0.46, "RC24": 0.44, "RC40": 0.42,
	"RC30": 0.47,
	"RC41": 0.41, "RC42": 0.41,
}

// Biographies and notices get their own dedicated types, so the
// topic/gist/blank evergreens stay out of their way.
var evergreenBlockedForBio = toSet("RC22", "RC23", "RC24", "RC31", "RC32", "RC33", "RC40")

var evergreenBlockedForNotice = toSet("RC22", "RC23", "RC24", "RC31", "RC32", "RC33", "RC40")

// rc21Passthrough keeps a low-fit RC21 candidate in the pool so the
// LLM scorer can confirm or reject figurative-meaning items.
var rc21Passthrough = func() bool {
	v := strings.ToLower(os.Getenv("ITEMFORGE_RC21_PASSTHROUGH"))
	return v == "" || v == "1" || v == "true" || v == "yes" || v == "on"
}()

var firstSentSplitRE = regexp.MustCompile(`[.!?]`)

func trimReason(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// RuleCandidates scores a passage against every item type using
// surface and content heuristics. The passage is stripped of circled
// markers and underline tags first, so the scorer sees the same text
// the generation prompts will.
func RuleCandidates(raw string) []Candidate {
	txt := passage.StripAnnotations(raw)
	tokens := len(strings.Fields(txt))
	band := lengthBand(tokens)
	allowed := allowedForBand(band)

	emotionShift := hasEmotionShift(txt)
	metrics := basicCounts(txt)
	noticeLike := isNoticeLike(txt, metrics)

	var cands []Candidate
	add := func(t string, fit float64, reason, hint string) {
		if !allowed[t] {
			return
		}
		cands = append(cands, Candidate{
			Type:     t,
			Fit:      max(0.0, min(1.0, fit)),
			Reason:   trimReason(reason, 120),
			PrepHint: hint,
		})
	}

	// Notices: RC27 leads, RC28 as the softer variant.
	if noticeLike {
		add("RC27", 0.90, "notice/announcement: dense facts, conditions, periods, fees",
			"turn the listed conditions into options and test them against the text")
		add("RC28", 0.80, "notice/announcement: one option can match the guidance",
			"pick the single option consistent with the whole notice")
	} else if noticeKeysRE.MatchString(txt) {
		add("RC27", 0.85, "notice section keys detected", "keep the sections, mark fact-check points")
		add("RC28", 0.80, "notice section keys detected", "build options where exactly one matches")
	}

	if insertMarkRE.MatchString(txt) {
		add("RC38", 0.90, "numbered insertion slots present", "check discourse markers and referents across slots")
		add("RC39", 0.85, "numbered insertion slots present, advanced variant", "inspect the logic before and after each slot")
	}

	rc29Feasible := scoreStructureRC29(txt, metrics) >= 0.35

	if numBulletsRE.MatchString(txt) && underlineRE.MatchString(txt) {
		fit, note := 0.50, "feasibility unclear"
		if rc29Feasible {
			fit, note = 0.88, "feasible"
		}
		add("RC29", fit, "numbered markers plus underlined spans ("+note+")",
			"find the single grammatical error among the marked spans")
		add("RC30", 0.80, "numbered markers plus underlined spans",
			"find the single lexically inappropriate word")
	}

	if numBulletsRE.MatchString(txt) && !underlineRE.MatchString(txt) {
		if rc29Feasible {
			add("RC29", 0.70, "numbered markers only: basic grammar-judgment form",
				"check agreement, tense, relatives, verbals")
		} else {
			add("RC29", 0.45, "numbered markers only, feasibility unclear",
				"check agreement, tense, relatives, verbals")
		}
	}

	hasBullets := numBulletsRE.MatchString(txt)
	hasInsertMark := insertMarkRE.MatchString(txt)
	hasUnderline := underlineRE.MatchString(txt)

	if rc21Passthrough && !hasBullets && !hasInsertMark {
		add("RC21", 0.55, "passthrough candidate for figurative-meaning check, weak format signal",
			"practice inferring what the expression means in context")
	}

	rc21Score := scoreFigurativeRC21(txt)
	if rc21Score >= 0.60 {
		fit := 0.78
		if hasBullets || hasUnderline || hasInsertMark {
			fit = 0.70
		}
		add("RC21", fit, "strong idiom or figurative-language signal",
			"explain what the central figure of speech stands for in context")
	} else if rc21Score >= 0.45 {
		fit := 0.68
		if hasBullets || hasUnderline || hasInsertMark {
			fit = 0.60
		}
		add("RC21", fit, "idiom or figurative-language signal",
			"work out the role the expression plays in the sentence's overall meaning")
	}

	if numBulletsRE.MatchString(txt) && inlineLexRE.MatchString(txt) {
		add("RC30", 0.65, "numbered markers followed by short word candidates",
			"find the word that clashes with context or collocation")
	}

	if sem30 := scoreLexicalRC30(txt); sem30 >= 0.35 {
		add("RC30", sem30, "lexical and nuance cues without format markers",
			"check word choice against context")
	}

	if sem29 := scoreGrammarRC29(txt); sem29 >= 0.30 {
		add("RC29", sem29, "grammar metalanguage without format markers",
			"check tense, agreement, prepositions, articles")
	}

	if struct29 := scoreStructureRC29(txt, metrics); struct29 >= 0.35 && allowed["RC29"] {
		if !noticeLike && !bioRE.MatchString(txt) && !emotionShift {
			add("RC29", struct29,
				"no format signal, but an expository passage rich in relatives and subordinate clauses",
				"pick five grammar points and make exactly one of them wrong")
		}
	}

	if (chartyRE.MatchString(txt) || tableyRE.MatchString(txt)) && metrics.Sent >= 5 {
		add("RC25", 0.78, "passage describing chart or statistical figures, five sentences or more",
			"use five sentences from the passage directly as true/false options")
	}

	// RC26 only for genuinely individual biographies, not group or
	// culture descriptions.
	if bioRE.MatchString(txt) {
		firstSent := firstSentSplitRE.Split(txt, 2)[0]
		groupLike := groupNounRE.MatchString(firstSent)
		pronHits := len(pronounRE.FindAllString(txt, -1))
		yearHits := len(bioYearRE.FindAllString(txt, -1))
		if !groupLike && yearHits >= 1 && (pronHits >= 1 || metrics.ProperLike >= 2) {
			add("RC26", 0.82, "individual biography: birth, career, chronological events",
				"arrange the life events in time order")
		}
	}

	if allowed["RC35"] && looksExpositoryFlowRC35(txt, metrics, emotionShift) {
		add("RC35", 0.72, "single-topic expository passage with five or more sentences",
			"find the one sentence that breaks the overall flow")
	}

	if argumentRE.MatchString(txt) {
		add("RC20", 0.70, "obligation or recommendation wording detected", "claim-evidence-counter structure")
	}

	if emotionRE.MatchString(txt) {
		if emotionShift {
			add("RC19", 0.80, "narrative with opposing emotion polarity and a turning point",
				"order the initial, turning, and final feelings")
		} else {
			add("RC19", 0.60, "emotion vocabulary detected",
				"separate initial, turning, and final feelings")
		}
	}

	switch classifyABC(txt, metrics, emotionShift) {
	case "RC36":
		add("RC36", 0.72, "(A)(B)(C) labels on an expository passage: paragraph ordering",
			"use discourse markers and referents to infer the natural order")
	case "RC37":
		add("RC37", 0.72, "(A)(B)(C) labels on a research or stepwise-argument passage",
			"trace the hypothesis-method-result or condition-result structure")
	}

	if allowed["RC38"] && !insertMarkRE.MatchString(txt) {
		if looksInsertionFriendlyRC38(txt, metrics, emotionShift, noticeLike) {
			add("RC38", 0.72, "no insertion slots, but an expository passage with a clear pivot sentence",
				"decide where the pivot sentence belongs for the smoothest flow")
		}
	}

	if allowed["RC39"] && !insertMarkRE.MatchString(txt) {
		if looksArgumentInsertionRC39(txt, metrics, emotionShift, noticeLike) {
			add("RC39", 0.74, "argument passage where a meta sentence can be inserted mid-flow",
				"find where the argument's direction shifts or the analogy breaks")
		}
	}

	if lowerParenRE.MatchString(txt) {
		add("RC41", 0.72, "(a)(b)(c) labels detected: set passage", "map each section's gist and links")
		add("RC42", 0.70, "(a)(b)(c) labels detected: set passage, advanced", "detailed inference and contrast")
	}

	rc41Sig, rc42Sig := setSignalScores(txt)
	if allowed["RC41"] && rc41Sig > 0.0 {
		add("RC41", 0.60+rc41Sig, "set markers: labels, Part/Section headings, cross references",
			"relate the sections and find the core claim")
	}
	if allowed["RC42"] && rc42Sig > 0.0 {
		add("RC42", 0.58+rc42Sig, "set markers: labels, Part/Section headings, cross references",
			"detailed inference and comparison across sections")
	}

	if tokens >= 90 && !(noticeKeysRE.MatchString(txt) || bioRE.MatchString(txt)) && !emotionShift {
		add("RC24", 0.86, "expository passage: title inference", "compress the whole flow into one phrase")
		add("RC23", 0.84, "expository passage: topic identification", "state the core concept in one sentence")
		add("RC22", 0.80, "expository passage: gist identification", "summarize the writer's overall claim")

		if looksBlankFriendlyRC31(txt, metrics) {
			add("RC31", 0.84, "good host for a key-concept word blank", "blank the central noun phrase")
		}

		add("RC32", 0.78, "phrase or clause level blank feasible", "blank a cause-effect or pivot point")

		rc33Fit := 0.74
		if looksHighLevelRC33(txt, metrics) {
			rc33Fit = 0.84
		}
		add("RC33", rc33Fit, "advanced phrase or clause blank", "target summary or transition clauses")

		rc34Fit := 0.0
		if looksGlobalBlankRC34(txt, metrics) {
			rc34Fit = 0.83
			if tokens >= 170 {
				rc34Fit = 0.86
			}
		} else if tokens >= 150 {
			rc34Fit = 0.78
		}
		if rc34Fit > 0.0 {
			add("RC34", rc34Fit, "long expository passage where a pivot or causal clause can be blanked",
				"blank a mid-passage transition, not the first or last sentence")
		}

		rc40Fit := 0.72
		if looksABSummaryRC40(txt, metrics) {
			rc40Fit = 0.83
			if tokens >= 150 {
				rc40Fit = 0.86
			}
		}
		add("RC40", rc40Fit, "expository passage compressible into two (A)(B) noun phrases",
			"find the two contrasting aspects, such as problem/solution or cause/effect")
	}

	if tokens >= 220 {
		add("RC41", 0.62, "long expository passage: set candidate (1)", "-")
		add("RC42", 0.60, "long expository passage: set candidate (2)", "-")
	}

	hasLetter := letterDearRE.MatchString(txt) || letterCloseRE.MatchString(txt)
	hasIntent := intentRequestRE.MatchString(txt) || intentInquiryRE.MatchString(txt) ||
		intentGuideRE.MatchString(txt) || intentPromoRE.MatchString(txt)

	if hasLetter {
		fit, reason := 0.80, "letter format detected"
		if hasIntent {
			fit, reason = 0.85, "letter format with a clear purpose or request"
		}
		add("RC18", fit, reason, "summarize the writer's intent in one sentence")
	} else if hasIntent && tokens <= 120 && !(chartyRE.MatchString(txt) || tableyRE.MatchString(txt)) {
		add("RC18", 0.70, "short notice with a clear participation or inquiry purpose",
			"state the document's overall purpose in one sentence")
	}

	cands = injectEvergreen(cands, txt, metrics, allowed)

	// Dedupe to the best fit per type, keeping first-seen order so the
	// stable sort breaks fit ties deterministically.
	merged := map[string]*Candidate{}
	var order []string
	for i := range cands {
		c := cands[i]
		cur, ok := merged[c.Type]
		if !ok {
			cc := c
			merged[c.Type] = &cc
			order = append(order, c.Type)
			continue
		}
		if c.Fit > cur.Fit {
			cc := c
			merged[c.Type] = &cc
		}
	}

	applyLengthBoosts(merged, metrics)
	applySignalBoosts(merged, txt, metrics)

	for t := range merged {
		if !allowed[t] {
			delete(merged, t)
		}
	}

	out := make([]Candidate, 0, len(merged))
	for _, t := range order {
		if c, ok := merged[t]; ok {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fit > out[j].Fit })
	return collapseSetGroups(out)
}

func injectEvergreen(cands []Candidate, txt string, m passageMetrics, allowed map[string]bool) []Candidate {
	existing := map[string]bool{}
	for _, c := range cands {
		existing[c.Type] = true
	}

	noticeLike := isNoticeLike(txt, m)
	strongFormat := noticeKeysRE.MatchString(txt) || insertMarkRE.MatchString(txt) ||
		underlineRE.MatchString(txt) || noticeLike
	boost := 0.03
	if strongFormat {
		boost = 0.0
	}
	isBio := bioRE.MatchString(txt)

	for _, t := range evergreenTypes {
		if !allowed[t] || existing[t] {
			continue
		}
		if isBio && evergreenBlockedForBio[t] {
			continue
		}
		if noticeLike && evergreenBlockedForNotice[t] {
			continue
		}
		base, ok := evergreenBaseFit[t]
		if !ok {
			base = 0.45
		}
		cands = append(cands, Candidate{
			Type:     t,
			Fit:      max(0.0, min(1.0, base+boost)),
			Reason:   "evergreen type, workable without format signals",
			PrepHint: "review the passage's logic, syntax, and vocabulary overall",
		})
	}
	return cands
}

func bump(base map[string]*Candidate, t string, v float64) {
	if c, ok := base[t]; ok {
		c.Fit = min(1.0, c.Fit+v)
	}
}

func bumpAll(base map[string]*Candidate, boosts map[string]float64) {
	for t, v := range boosts {
		bump(base, t, v)
	}
}

func applyLengthBoosts(base map[string]*Candidate, m passageMetrics) {
	switch {
	case m.Tok < 150:
		bumpAll(base, map[string]float64{"RC18": 0.06, "RC19": 0.04, "RC27": 0.05, "RC28": 0.03, "RC24": 0.02})
	case m.Tok < 190:
		bumpAll(base, map[string]float64{"RC20": 0.03, "RC22": 0.04, "RC23": 0.04, "RC26": 0.03, "RC25": 0.03, "RC27": 0.02, "RC28": 0.02, "RC29": 0.04, "RC30": 0.03, "RC36": 0.03})
	default:
		bumpAll(base, map[string]float64{"RC31": 0.04, "RC32": 0.04, "RC33": 0.03, "RC34": 0.04, "RC35": 0.03, "RC37": 0.03, "RC38": 0.03, "RC39": 0.03, "RC40": 0.03})
		if m.Tok >= 220 {
			bumpAll(base, map[string]float64{"RC41": 0.04, "RC42": 0.04})
		}
	}
	if m.AvgLen >= 18 {
		bumpAll(base, map[string]float64{"RC31": 0.02, "RC32": 0.03, "RC33": 0.03, "RC29": 0.02})
	}
	if m.Paras >= 2 {
		bumpAll(base, map[string]float64{"RC22": 0.03, "RC23": 0.03, "RC32": 0.02, "RC33": 0.02, "RC40": 0.03})
	}
	if m.Paras >= 3 && m.Tok >= 180 {
		bumpAll(base, map[string]float64{"RC41": 0.03, "RC42": 0.03})
	}
}

func applySignalBoosts(base map[string]*Candidate, txt string, m passageMetrics) {
	if m.DMCount >= 4 {
		bumpAll(base, map[string]float64{"RC22": 0.05, "RC23": 0.04, "RC31": 0.03, "RC32": 0.03, "RC33": 0.03, "RC38": 0.03, "RC39": 0.03})
	}
	if m.DeicticCnt >= 6 {
		bumpAll(base, map[string]float64{"RC38": 0.04, "RC39": 0.04, "RC36": 0.03, "RC37": 0.03, "RC22": 0.02, "RC40": 0.02})
	}
	if metaRC39RE.MatchString(txt) && contrastRC39RE.MatchString(txt) {
		bump(base, "RC39", 0.06)
	}

	noticeLike := isNoticeLike(txt, m)

	if !noticeLike && !bioRE.MatchString(txt) && pairingRC40RE.MatchString(txt) {
		bump(base, "RC40", 0.06)
	}

	// RC25 needs at least five sentences usable verbatim as options.
	chartLike := tableyRE.MatchString(txt) || chartyRE.MatchString(txt)
	if m.Sent >= 5 && (chartLike || m.NumCount >= 3) {
		yearHits := len(yearRE.FindAllString(txt, -1))
		compareHits := len(compareHitsRE.FindAllString(txt, -1))
		groupHits := len(groupHitsRE.FindAllString(txt, -1))

		if m.NumCount >= 3 {
			bump(base, "RC25", 0.08)
		}
		if chartLike {
			bump(base, "RC25", 0.06)
		}
		if yearHits >= 2 {
			bump(base, "RC25", 0.05)
		}
		if compareHits >= 1 {
			bump(base, "RC25", 0.04)
		}
		if groupHits >= 1 {
			bump(base, "RC25", 0.04)
		}
	}

	if bioRE.MatchString(txt) {
		bump(base, "RC26", 0.06)
	}
	if m.TTR < 0.35 {
		bumpAll(base, map[string]float64{"RC31": 0.04, "RC40": 0.04})
	}
	if m.ProperLike >= 6 {
		bumpAll(base, map[string]float64{"RC22": 0.02, "RC23": 0.02, "RC31": 0.02, "RC40": 0.02})
	}

	hasLetter := letterDearRE.MatchString(txt) || letterCloseRE.MatchString(txt)
	hasIntent := intentRequestRE.MatchString(txt) || intentInquiryRE.MatchString(txt) ||
		intentGuideRE.MatchString(txt) || intentPromoRE.MatchString(txt)
	if hasLetter {
		bump(base, "RC18", 0.10)
	}
	if hasIntent {
		bump(base, "RC18", 0.06)
	}
	if hasLetter && hasIntent {
		bump(base, "RC18", 0.04)
	}

	if emotionRE.MatchString(txt) {
		bump(base, "RC19", 0.06)
	}
	if argumentRE.MatchString(txt) {
		bump(base, "RC20", 0.05)
	}

	shellHit := false
	for _, re := range idiomShellREs {
		if re.MatchString(txt) {
			shellHit = true
			break
		}
	}
	if shellHit || similiRE.MatchString(txt) || countCueHits(metaphorCues, strings.ToLower(txt)) >= 1 {
		bump(base, "RC21", 0.05)
	}

	if noticeLike {
		bump(base, "RC27", 0.12)
		bump(base, "RC28", 0.06)
		// Notices push the expository evergreens down.
		for t, delta := range map[string]float64{
			"RC22": -0.12, "RC23": -0.12, "RC24": -0.08,
			"RC31": -0.12, "RC32": -0.10, "RC33": -0.10,
			"RC40": -0.10,
		} {
			if c, ok := base[t]; ok {
				c.Fit = max(0.0, c.Fit+delta)
			}
		}
	} else if noticeKeysRE.MatchString(txt) || websiteURLRE.MatchString(txt) {
		bump(base, "RC27", 0.05)
		bump(base, "RC28", 0.04)
	}

	if grammarMetaRE.MatchString(txt) {
		bump(base, "RC29", 0.04)
	}
	if lexicalMetaRE.MatchString(txt) {
		bump(base, "RC30", 0.04)
	}
	if numBulletsRE.MatchString(txt) && underlineRE.MatchString(txt) {
		bumpAll(base, map[string]float64{"RC29": 0.08, "RC30": 0.06})
	}
	if insertMarkRE.MatchString(txt) {
		bumpAll(base, map[string]float64{"RC35": 0.06, "RC38": 0.05})
	}
	if paraLabelRE.MatchString(txt) {
		bumpAll(base, map[string]float64{"RC36": 0.05, "RC37": 0.04})
	}
	if lowerParenRE.MatchString(txt) {
		bumpAll(base, map[string]float64{"RC41": 0.05, "RC42": 0.05})
	}
	if looksExpositoryTopic(txt, m) {
		bumpAll(base, map[string]float64{"RC24": 0.10, "RC23": 0.06, "RC22": 0.04})
	}
}

// collapseSetGroups merges RC41 and RC42 into a single set candidate
// whose selection generates both member items. Caps the list at 12.
func collapseSetGroups(cands []Candidate) []Candidate {
	var rc41, rc42 *Candidate
	for i := range cands {
		switch cands[i].Type {
		case "RC41":
			rc41 = &cands[i]
		case "RC42":
			rc42 = &cands[i]
		}
	}
	if rc41 != nil && rc42 != nil {
		fit := max(rc41.Fit, rc42.Fit)
		out := cands[:0:0]
		for _, c := range cands {
			if c.Type == "RC41" || c.Type == "RC42" {
				continue
			}
			out = append(out, c)
		}
		out = append(out, Candidate{
			Type:     "RC41",
			Fit:      fit,
			Reason:   "set passage suited to generating both member items together",
			PrepHint: "selecting the set generates every member",
			UILabel:  "RC41_42",
			Members:  []string{"RC41", "RC42"},
		})
		sort.SliceStable(out, func(i, j int) bool { return out[i].Fit > out[j].Fit })
		cands = out
	}
	if len(cands) > 12 {
		cands = cands[:12]
	}
	return cands
}
