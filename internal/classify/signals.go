package classify

import (
	"regexp"
	"strings"
)

// Surface and content signals. Names follow the item-type families they
// feed: notice keys drive RC27/28, bio patterns drive RC26, emotion
// polarity drives RC19, and so on.

var (
	underlineRE  = regexp.MustCompile(`(?is)<u>.*?</u>`)
	numBulletsRE = regexp.MustCompile(`[①②③④⑤]`)
	insertMarkRE = regexp.MustCompile(`\(\s*[①②③④⑤]\s*\)`)
	paraLabelRE  = regexp.MustCompile(`\([A-C]\)`)
	lowerParenRE = regexp.MustCompile(`\([a-e]\)`)

	noticeKeysRE = regexp.MustCompile(`(?i)\b(` +
		`Title|Date|Location|Eligibility|Registration|Fee|Contact|Note|Time|Venue|` +
		`Deadline|Participants?|Age requirement|Restrictions?|Details?|Awards?|` +
		`Evaluation Criteria|Activities?|Duration|Period|Schedule|Return|Use|` +
		`Service Range|Purchase Information|Tour Times?|Renovation Period|` +
		`Areas to be Closed|Card Type|Additional Information|Caution` +
		`)\s*:`)

	pivotRC33RE = regexp.MustCompile(`(?i)\b(it follows that|in turn|therefore|thus|consequently|as a result)\b`)

	metaRC39RE = regexp.MustCompile(`(?i)\b(analogy|argument|reasoning|logic|this is why|the reason is|what's worse|in reality|in fact|not .* but|the essence of|fails to|undermine[s]?)\b`)

	contrastRC39RE = regexp.MustCompile(`(?i)\b(by contrast|in contrast|however|but |yet |still,|nevertheless|nonetheless|on the other hand)\b`)

	bulletDotRE = regexp.MustCompile(`(?m)[∙•]|^\s*[-*]\s`)
	priceSignRE = regexp.MustCompile(`(?i)[$￡€]\s*\d`)

	tableyRE = regexp.MustCompile(`(?i)\b(table|figure|chart|graph)\b`)
	chartyRE = regexp.MustCompile(`(?i)\b(percent|percentage|survey|dataset|index|rank(ed)?|ratio|per capita|growth rate|decline|increase)\b`)

	bioRE = regexp.MustCompile(`(?i)\b(` +
		`born\b|born in|was born in|` +
		`died in|passed away|` +
		`awarded|won the|` +
		`career|early life|later years|retired|` +
		`biograph|Nobel|prize` +
		`)\b`)

	argumentRE = regexp.MustCompile(`(?i)\b(` +
		`should|must|ought to|need to|have to|has to|` +
		`it is necessary to|` +
		`it is (?:important|essential|crucial|critical) to|` +
		`it is desirable that|` +
		`it would be better to|` +
		`we (?:have|need to)` +
		`)\b`)

	emotionRE = regexp.MustCompile(`(?i)\b(feel|felt|anxious|relieved|disappointed|excited|upset|proud|afraid|confident|confidence)\b`)

	expLikeRE = regexp.MustCompile(`(?i)\b(` +
		`experiment|experimental|research|study|studies|` +
		`data|dataset|measurements?|subjects?|participants?|` +
		`they found that|we found that|results? (?:show|suggest|indicate)|` +
		`observed that|observations? of|` +
		`patterns? of|scanning` +
		`)\b`)

	strongExpRC37RE = regexp.MustCompile(`(?i)\b(` +
		`experiment|experimental|` +
		`randomi[sz]ed|control group|treatment group|placebo|` +
		`subjects?|participants?|` +
		`in one study|in a study|in an experiment` +
		`)\b`)

	reasoningMetaRC37RE = regexp.MustCompile(`(?i)\b(` +
		`assume|assumption|principle|theory|model|` +
		`equilibrium|equilibria|outcome|outcomes|scenario|` +
		`case in which|cases? where` +
		`)\b`)

	causalChainRC37RE = regexp.MustCompile(`(?i)\b(therefore|thus|consequently|as a result|hence|in turn)\b`)

	defCueRC36RE = regexp.MustCompile(`(?i)\b(is|are|was|were)\s+(called|known as|defined as)\b|\b(refers to|means that)\b`)

	exampleCueRC36RE = regexp.MustCompile(`(?i)\b(` +
		`for example|for instance|similarly|in particular|` +
		`in this sense|in practice|in the real world` +
		`)\b`)

	turningRE = regexp.MustCompile(`(?i)\b(However|But|Then|Finally|At last|After (he|she|I)|After hearing)\b`)

	similiRE = regexp.MustCompile(`(?i)\b(?:like|as)\s+(?:a|an|the)?\s*[A-Za-z][A-Za-z\-']{3,}`)

	inlineLexRE = regexp.MustCompile(`[①②③④⑤]\s*[A-Za-z가-힣\-]+(?:\s+[A-Za-z가-힣\-]+){0,2}`)

	lexicalMetaRE = regexp.MustCompile(`(?i)\b(word\s*choice|lexical|collocation|nuance|synonym|antonym|appropriate|inappropriate)\b`)

	contrastEvalRE = regexp.MustCompile(`(?is)` +
		`\b(irrelevant|inaccurate|misleading|awkward|odd|inapt|ill[-\s]?fitted|ill[-\s]?chosen|off)\b.*?\b` +
		`(relevant|accurate|apt|fitting|well[-\s]?chosen|on[-\s]?point|natural)\b|` +
		`\b(relevant|accurate|apt|fitting|well[-\s]?chosen|on[-\s]?point|natural)\b.*?\b` +
		`(irrelevant|inaccurate|misleading|awkward|odd|inapt|ill[-\s]?fitted|ill[-\s]?chosen|off)\b`)

	derivationRE = regexp.MustCompile(`(?i)\b\w+(?:ness|tion|sion|ity|able|ible|ive|al|ly|ment|ize|ise|ous)\b`)

	grammarMetaRE = regexp.MustCompile(`(?i)\b(tense|agreement|subject[-\s]?verb|preposition|article|pronoun|parallelism|comparative|superlative|` +
		`modifier|participle|gerund|infinitive|voice|case|concord)\b`)

	romanParenRE   = regexp.MustCompile(`(?i)\(\s*(?:i|ii|iii|iv|v)\s*\)`)
	partHeadingRE  = regexp.MustCompile(`(?i)\bPart\s*(?:I|II|III|1|2|3)\b`)
	sectionHeadRE  = regexp.MustCompile(`(?i)\bSection\s*[A-C1-3]\b`)
	questionRngRE  = regexp.MustCompile(`(?i)\bQuestions?\s*(?:\d+\s*[-–]\s*\d+|\d+\s*(?:and|&)\s*\d+)\b`)
	formerLatterRE = regexp.MustCompile(`(?i)\b(the\s+former|the\s+latter|respectively)\b`)
	refPassageRE   = regexp.MustCompile(`(?i)\b(in|from)\s+(?:passage|paragraph|text)\s*\(?[a-e]\)?\b`)

	letterDearRE  = regexp.MustCompile(`\b(Dear\s+[A-Z][a-zA-Z]+|To whom it may concern|Dear\s+Friends)\b`)
	letterCloseRE = regexp.MustCompile(`\b(Sincerely|Regards|Best regards|Yours truly|Many blessings)\b`)
	websiteURLRE  = regexp.MustCompile(`(?i)https?://|www\.`)

	intentRequestRE = regexp.MustCompile(`(?i)\b(I would like to (?:ask|request)|Please let me know|I ask you to|I want immediate action)\b`)
	intentInquiryRE = regexp.MustCompile(`(?i)\b(I am writing to inquire|I would like to know|I want to know|could not find (?:any )?information)\b`)
	intentGuideRE   = regexp.MustCompile(`(?i)\b(This is how you participate|Here is how you participate|You can bring your items for donation|You can bring your items)\b`)
	intentPromoRE   = regexp.MustCompile(`(?i)\bIf you'?re interested in\b|\bThis post is for you\b|\bIt'?s time to\b`)

	pivotRC38RE = regexp.MustCompile(`(?i)\b(yes,|however,|but |in fact,|indeed,|for example,|by way of example,|without\b|once\b|thus,)`)

	pairingRC40RE = regexp.MustCompile(`(?is)\b(` +
		`on the one hand\b.*\bon the other hand\b|` +
		`both\b.*\band\b|` +
		`not only\b.*\bbut\b|` +
		`while\b.*\b(but|and)\b|` +
		`whereas\b` +
		`)`)

	basicContrastRE = regexp.MustCompile(`(?i)\b(while|whereas|although|though)\b`)
	pivotMidRE      = regexp.MustCompile(`(?i)\b(however|instead|on the other hand|but)\b`)

	yearRE        = regexp.MustCompile(`\b\d{4}\b`)
	bioYearRE     = regexp.MustCompile(`\b(18|19|20)\d{2}\b`)
	pronounRE     = regexp.MustCompile(`(?i)\b(he|she|his|her)\b`)
	compareHitsRE = regexp.MustCompile(`(?i)\b(compared to|compared with|than|whereas)\b`)
	groupHitsRE   = regexp.MustCompile(`(?i)\b(rural|urban|country|countries|region|regions|age group|age-group|age groups|respondents|survey)\b`)
	groupNounRE   = regexp.MustCompile(`(?i)\b(ethnic group|people|tribe|nation|society|community|culture)\b`)

	dateOrPeriodRE = regexp.MustCompile(`(?i)\b(deadline|period|schedule|from\s+\w+\s+\d|\d{1,2}:\d{2}\s*(?:a\.m\.|p\.m\.)|tour\s+times?|renovation period|from\s+june|from\s+november)\b`)
	sectionHitsRE  = regexp.MustCompile(`(?i)\b(age requirement|restrictions?|participants?|awards?|evaluation criteria|activities?|use|return|service range|purchase information|tour times?|renovation period|areas to be closed|card type|additional information)\b`)

	relCluesRE = regexp.MustCompile(`\b(which|that|who|whom|whose|where|when)\b`)
	subCluesRE = regexp.MustCompile(`\b(because|although|though|while|when|if|unless|since|after|before)\b`)
	auxCluesRE = regexp.MustCompile(`\b(am|is|are|was|were|has|have|had|do|does|did|can|could|should|would|must|may|might)\b`)
)

// Idiom frames that signal figurative language for RC21.
var idiomShellREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bthe\s+[a-z]+?\s+in\s+the\s+room\b`),
	regexp.MustCompile(`(?i)\b[a-z]+-?ed\s+sword\b`),
	regexp.MustCompile(`(?i)\bball\s+is\s+in\s+(?:my|your|his|her|their|our)\s+court\b`),
	regexp.MustCompile(`(?i)\bon\s+thin\s+ice\b`),
	regexp.MustCompile(`(?i)\bglass\s+ceiling\b`),
	regexp.MustCompile(`(?i)\bslippery\s+slope\b`),
}

var metaphorCues = toSet(
	"iceberg", "elephant", "sword", "ceiling", "slope", "anchor",
	"compass", "pillar", "bridge", "lens", "canvas", "blind trust",
)

var posEmotion = toSet(
	"relieved", "confident", "confidence", "excited", "proud",
	"joy", "joyful", "happy", "glad", "satisfied", "at peace",
)

var negEmotion = toSet(
	"anxious", "uneasy", "upset", "afraid", "nervous",
	"disappointed", "frustrated", "shaking", "troubled", "worried",
)

func countCueHits(cues map[string]bool, lc string) int {
	n := 0
	for w := range cues {
		if strings.Contains(lc, w) {
			n++
		}
	}
	return n
}

// hasEmotionShift reports a narrative with opposing emotion polarity or
// a turning point plus emotion vocabulary. RC19's strongest signal.
func hasEmotionShift(txt string) bool {
	lc := strings.ToLower(txt)
	neg := countCueHits(negEmotion, lc)
	pos := countCueHits(posEmotion, lc)
	return (neg > 0 && pos > 0) || (turningRE.MatchString(txt) && emotionRE.MatchString(txt))
}

// isNoticeLike detects announcement/form passages: section labels,
// bullets, prices, dates, and short factual sentences.
func isNoticeLike(txt string, m passageMetrics) bool {
	if txt == "" {
		return false
	}
	t := strings.ToLower(txt)

	strong := noticeKeysRE.MatchString(txt) || websiteURLRE.MatchString(txt)

	factSignals := 0
	if bulletDotRE.MatchString(txt) {
		factSignals++
	}
	if priceSignRE.MatchString(txt) {
		factSignals++
	}
	if dateOrPeriodRE.MatchString(t) {
		factSignals++
	}
	if len(sectionHitsRE.FindAllString(t, -1)) >= 1 {
		factSignals++
	}

	if strong && m.Sent >= 3 {
		return true
	}
	return factSignals >= 2 && m.Sent >= 4 && m.Tok <= 220
}

// looksExpositoryTopic reports a single-topic explanatory or analytical
// passage: long enough, no letter/notice/bio/narrative features, and
// with discourse markers carrying the logic.
func looksExpositoryTopic(txt string, m passageMetrics) bool {
	if m.Tok < 90 || m.Sent < 3 {
		return false
	}
	if noticeKeysRE.MatchString(txt) || bioRE.MatchString(txt) {
		return false
	}
	if letterDearRE.MatchString(txt) || letterCloseRE.MatchString(txt) {
		return false
	}
	if websiteURLRE.MatchString(txt) {
		return false
	}
	if hasEmotionShift(txt) {
		return false
	}
	if m.DMCount < 2 {
		return false
	}
	return true
}

func looksBlankFriendlyRC31(txt string, m passageMetrics) bool {
	if txt == "" || !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 90 || m.Tok > 260 {
		return false
	}
	if numBulletsRE.MatchString(txt) || insertMarkRE.MatchString(txt) ||
		paraLabelRE.MatchString(txt) || lowerParenRE.MatchString(txt) {
		return false
	}
	return m.AvgLen >= 14
}

func looksHighLevelRC33(txt string, m passageMetrics) bool {
	if txt == "" || !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 120 || m.Tok > 260 || m.Sent < 5 {
		return false
	}
	if m.DMCount < 3 || m.DeicticCnt < 5 {
		return false
	}
	return pivotRC33RE.MatchString(strings.ToLower(txt))
}

func looksGlobalBlankRC34(txt string, m passageMetrics) bool {
	if txt == "" || !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 140 || m.Tok > 270 || m.Sent < 5 {
		return false
	}
	if m.DMCount < 3 || m.DeicticCnt < 5 || m.AvgLen < 16 {
		return false
	}
	lc := strings.ToLower(txt)
	return pivotRC33RE.MatchString(lc) || pivotMidRE.MatchString(lc)
}

func looksABSummaryRC40(txt string, m passageMetrics) bool {
	if txt == "" || !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 90 || m.Tok > 260 || m.Sent < 3 || m.DMCount < 2 {
		return false
	}
	lc := strings.ToLower(txt)
	return pairingRC40RE.MatchString(lc) || basicContrastRE.MatchString(lc)
}

func looksExpositoryFlowRC35(txt string, m passageMetrics, emotionShift bool) bool {
	if txt == "" {
		return false
	}
	if m.Sent < 5 || m.Tok < 70 || m.Tok > 260 {
		return false
	}
	if isNoticeLike(txt, m) || noticeKeysRE.MatchString(txt) || bioRE.MatchString(txt) {
		return false
	}
	if letterDearRE.MatchString(txt) || letterCloseRE.MatchString(txt) || websiteURLRE.MatchString(txt) {
		return false
	}
	if emotionShift {
		return false
	}
	return looksExpositoryTopic(txt, m)
}

func looksInsertionFriendlyRC38(txt string, m passageMetrics, emotionShift, noticeLike bool) bool {
	if txt == "" || noticeLike || emotionShift {
		return false
	}
	if !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 120 || m.Tok > 230 || m.Sent < 5 {
		return false
	}
	return pivotRC38RE.MatchString(txt)
}

func looksArgumentInsertionRC39(txt string, m passageMetrics, emotionShift, noticeLike bool) bool {
	if txt == "" || noticeLike || emotionShift {
		return false
	}
	if !looksExpositoryTopic(txt, m) {
		return false
	}
	if m.Tok < 130 || m.Tok > 260 || m.Sent < 5 {
		return false
	}
	return metaRC39RE.MatchString(txt) && contrastRC39RE.MatchString(txt)
}

// classifyABC decides whether an (A)(B)(C)-labeled passage fits the
// plain ordering type (RC36), the research/stepwise-argument ordering
// type (RC37), or neither.
func classifyABC(txt string, m passageMetrics, emotionShift bool) string {
	if !paraLabelRE.MatchString(txt) {
		return ""
	}
	if emotionShift || isNoticeLike(txt, m) || noticeKeysRE.MatchString(txt) ||
		bioRE.MatchString(txt) || letterDearRE.MatchString(txt) || letterCloseRE.MatchString(txt) {
		return ""
	}
	if m.Tok < 70 || m.Tok > 260 || m.Sent < 4 {
		return ""
	}

	lc := strings.ToLower(txt)
	expository := looksExpositoryTopic(txt, m)

	expHits := len(expLikeRE.FindAllString(lc, -1))
	strongExpHits := len(strongExpRC37RE.FindAllString(lc, -1))
	reasoningHits := len(reasoningMetaRC37RE.FindAllString(lc, -1))
	causalHits := len(causalChainRC37RE.FindAllString(lc, -1))
	exampleHits := len(exampleCueRC36RE.FindAllString(lc, -1))
	definitionHits := len(defCueRC36RE.FindAllString(lc, -1))

	switch {
	case strongExpHits >= 1 && expHits >= 2:
		return "RC37"
	case expHits >= 1 && expository && exampleHits+definitionHits >= 2 && reasoningHits == 0:
		return "RC36"
	case expository && reasoningHits >= 1 && causalHits >= 1:
		return "RC37"
	case expository && (exampleHits >= 1 || definitionHits >= 1):
		return "RC36"
	case expository:
		return "RC36"
	default:
		return "RC37"
	}
}

// setSignalScores scores set-type surface markers: (a)(b)(c) labels,
// roman numerals, Part/Section headings, question ranges, and
// cross-passage references.
func setSignalScores(txt string) (rc41, rc42 float64) {
	if lowerParenRE.MatchString(txt) {
		rc41 += 0.18
		rc42 += 0.15
	}
	if romanParenRE.MatchString(txt) {
		rc41 += 0.10
		rc42 += 0.08
	}
	if partHeadingRE.MatchString(txt) {
		rc41 += 0.08
		rc42 += 0.06
	}
	if sectionHeadRE.MatchString(txt) {
		rc41 += 0.06
		rc42 += 0.05
	}
	if questionRngRE.MatchString(txt) {
		rc41 += 0.07
		rc42 += 0.06
	}
	if formerLatterRE.MatchString(txt) {
		rc41 += 0.05
		rc42 += 0.05
	}
	if refPassageRE.MatchString(txt) {
		rc41 += 0.06
		rc42 += 0.06
	}
	paraCnt := max(1, strings.Count(txt, "\n\n")+1)
	if paraCnt >= 2 {
		boost := min(0.06, 0.02*float64(paraCnt-1))
		rc41 += boost
		rc42 += boost
	}
	return min(rc41, 0.30), min(rc42, 0.28)
}
