// Package prompts holds the opaque prompt-template bodies and the
// builder that assembles them into a final user prompt: base rules,
// optional quality overlay, the item template, difficulty and topic
// instructions, passage injection, and the shared output rules.
package prompts

import (
	"strconv"
	"strings"
)

// BuildInput carries everything the builder needs for one prompt.
type BuildInput struct {
	ItemType       string
	Difficulty     string // easy|medium|hard
	Topic          string // detail code or "random"
	Passage        string
	VocabProfile   string
	DisableOverlay bool
}

// Generate assembles a generation prompt for an item type with the
// default options. Unknown codes fall back through their family.
func Generate(itemType, difficulty, topic, passage string) string {
	return Build(BuildInput{
		ItemType:   itemType,
		Difficulty: difficulty,
		Topic:      topic,
		Passage:    passage,
	})
}

// Build assembles the final prompt. Template selection tries, in order:
// the raw code, the first code of a range ("RC43_45" -> "RC43"), the
// canonical family key, and the family's numeric fallback. Every code
// lands on some template because RC_GENERIC backs the blank family.
func Build(in BuildInput) string {
	raw := strings.ToUpper(strings.TrimSpace(in.ItemType))

	var candidates []string
	add := func(k string) {
		if k == "" {
			return
		}
		for _, c := range candidates {
			if c == k {
				return
			}
		}
		candidates = append(candidates, k)
	}

	add(raw)
	if i := strings.IndexAny(raw, "_-"); i > 0 {
		add(raw[:i])
	}
	canon := canonicalKey(raw)
	add(canon)
	add(canonFallback[canon])

	body := ""
	for _, k := range candidates {
		if t, ok := itemTemplates[k]; ok {
			body = t
			break
		}
	}
	if body == "" {
		body = itemTemplates["RC_GENERIC"]
	}

	var b strings.Builder
	b.WriteString(baseInstruction)
	if !in.DisableOverlay {
		b.WriteString("\n\n")
		b.WriteString(overlayDefault)
	}
	b.WriteString("\n\n")
	b.WriteString(body)
	if d := difficultyInstructions[in.Difficulty]; d != "" {
		b.WriteString(d)
	}
	if t := topicInstruction(in.Topic); t != "" {
		b.WriteString(t)
	}
	if in.VocabProfile != "" {
		b.WriteString("\n\nVocabulary profile: use " + strconv.Quote(in.VocabProfile) +
			" level vocabulary. Output also includes: \"vocabulary_difficulty\": " +
			strconv.Quote(in.VocabProfile) + ", \"low_frequency_words\": []")
	}

	prompt := b.String()
	if in.Passage != "" {
		prompt = WithPassage(prompt, in.Passage)
	}

	return prompt + "\n\n# OUTPUT RULES\n" +
		"- Output only a valid JSON object. No extra text or markdown.\n" +
		"- All passages and transcripts must be in English.\n" +
		"- The content MUST align with the specified topic. If misaligned, regenerate internally and return only the final JSON."
}

// canonicalKey maps a code to its template family.
func canonicalKey(code string) string {
	k := code
	if k == "" {
		return "RC_BLANK"
	}
	if k == "RC_GENERIC" {
		return "RC_BLANK"
	}
	switch k {
	case "LC_STANDARD", "LC_CHART", "LC_SET", "RC_BLANK", "RC_INSERTION", "RC_ORDER", "RC_SET":
		return k
	}
	if strings.HasPrefix(k, "LC") && strings.ContainsAny(k, "_-") {
		return "LC_SET"
	}
	if strings.HasPrefix(k, "RC") && strings.ContainsAny(k, "_-") {
		return "RC_SET"
	}
	switch k {
	case "LC16", "LC17":
		return "LC_SET"
	case "LC10", "LC11", "LC12":
		return "LC_CHART"
	}
	if strings.HasPrefix(k, "LC") {
		return "LC_STANDARD"
	}
	switch k {
	case "RC34":
		return "RC_BLANK"
	case "RC35":
		return "RC_INSERTION"
	case "RC36", "RC37":
		return "RC_ORDER"
	}
	if n, ok := rcNumber(k); ok {
		if n >= 41 && n <= 45 {
			return "RC_SET"
		}
		if n >= 18 && n <= 40 {
			return "RC_BLANK"
		}
	}
	return k
}

var canonFallback = map[string]string{
	"RC_BLANK":     "RC34",
	"RC_INSERTION": "RC35",
	"RC_ORDER":     "RC36",
	"RC_SET":       "RC41",
	"LC_STANDARD":  "LC01",
	"LC_CHART":     "LC10",
	"LC_SET":       "LC16",
}

func rcNumber(code string) (int, bool) {
	if !strings.HasPrefix(code, "RC") {
		return 0, false
	}
	n, err := strconv.Atoi(code[2:])
	if err != nil {
		return 0, false
	}
	return n, true
}

var difficultyInstructions = map[string]string{
	"easy": "\n\nDifficulty adjustment: make this an EASY item.\n" +
		"- Sentence length: 10-14 words per sentence\n" +
		"- At most ~1.3 clauses per sentence, subordination ratio <= 0.25\n" +
		"- Basic to lower-intermediate vocabulary, familiar topics\n" +
		"- Prefer simple sentences and plain connectives; avoid nominalization",
	"medium": "\n\nDifficulty adjustment: standard difficulty.\n" +
		"- Mix of simple and complex sentences, moderate abstraction and information density\n" +
		"- Avoid excessive nominalization; keep verb- and adjective-based phrasing",
	"hard": "\n\nDifficulty adjustment: make this a HARD item.\n" +
		"- Sentence length: 18-24 words per sentence\n" +
		"- 1.8-2.4 clauses per sentence, subordination ratio 0.45-0.70\n" +
		"- Upper-intermediate to advanced vocabulary, some academic terms allowed\n" +
		"- More subordinate clauses and participial constructions, without overuse",
}

// topicInstruction returns the detail-topic constraint, empty for
// "random" or unknown codes.
func topicInstruction(code string) string {
	if code == "" || code == "random" {
		return ""
	}
	inst, ok := detailTopics[code]
	if !ok {
		return ""
	}
	return "\n\nTopic constraint: " + inst
}

var detailTopics = map[string]string{
	"philosophy":                 "center the content on a philosophical concept, thinker, or argument.",
	"religion":                   "address beliefs, rituals, history, or cultural context of a religion.",
	"language":                   "take a linguistic angle: structure, meaning, use, acquisition, or change.",
	"literature":                 "center on literary genres, works, themes, techniques, or criticism.",
	"education":                  "address aims, methods, assessment, learning theory, or learning environments.",
	"general_humanities":         "treat a cross-cutting issue in the humanities.",
	"political_diplomacy":        "address political or diplomatic institutions, theory, cases, or international relations.",
	"economy":                    "address markets, policy, finance, trade, or behavioral economics.",
	"society":                    "address a sociological issue: class, family, media, crime, or cities.",
	"culture":                    "address cultural production, spread, reception, identity, or multiculturalism.",
	"administration_management":  "address organizations, decision-making, strategy, or public/corporate cases.",
	"welfare_health":             "address welfare systems, public health, or access to healthcare.",
	"general_social_sciences":    "treat an integrative social-science topic.",
	"physics":                    "address physical laws, models, experiments, or applications.",
	"chemistry":                  "address substances, reactions, structure, thermodynamics, or materials.",
	"biology":                    "address life phenomena, evolution, genetics, ecology, or biotechnology.",
	"earth_science":              "address geology, meteorology, oceanography, or astronomy.",
	"environment":                "address pollution, climate change, conservation, policy, or technical responses.",
	"engineering":                "address design, systems, algorithms, manufacturing, or emerging technology.",
	"general_natural_sciences":   "treat an interdisciplinary natural-science topic.",
	"personal_life":              "address practical situations in personal life: hobbies, leisure, health, daily routines.",
	"family_life":                "address information and communication around home life: food, housing, family events.",
	"school_life":                "address school situations: classes, assignments, activities, career guidance.",
	"social_life":                "address everyday civic communication: relationships, gatherings, public procedures.",
	"work_life":                  "address workplace documents and procedures: hiring, reporting, collaboration, rules.",
	"culture_life":               "address practical cultural information: performances, exhibitions, travel, bookings.",
	"common_sense":               "address everyday guidance: safety, transport, emergencies, basic finance or digital literacy.",
}
