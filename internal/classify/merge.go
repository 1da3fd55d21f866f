package classify

import (
	"math"
	"sort"
)

const (
	llmWeight  = 0.55
	ruleWeight = 0.45
)

type mergedCandidate struct {
	Candidate
	votes int
}

// mergeCandidates combines the LLM and rule scorers into one ranked
// list. Agreement between the two sources earns a small bonus, and a
// few domain pairings are adjusted afterwards.
func mergeCandidates(llmCands, ruleCands []Candidate) []Candidate {
	merged := map[string]*mergedCandidate{}
	var order []string

	addAll := func(src []Candidate, weight float64) {
		for _, c := range src {
			cur, ok := merged[c.Type]
			if !ok {
				mc := &mergedCandidate{Candidate: c}
				mc.Fit = c.Fit * weight
				mc.Reason = trimReason(c.Reason, 200)
				if mc.PrepHint == "" {
					mc.PrepHint = "-"
				}
				mc.votes = 1
				merged[c.Type] = mc
				order = append(order, c.Type)
				continue
			}
			cur.Fit += c.Fit * weight
			cur.votes++
			// Prefer the shorter, crisper reason.
			if r := trimReason(c.Reason, 200); r != "" && (cur.Reason == "" || len(r) < len(cur.Reason)) {
				cur.Reason = r
			}
			if cur.PrepHint == "-" && c.PrepHint != "-" && c.PrepHint != "" {
				cur.PrepHint = trimReason(c.PrepHint, 200)
			}
			if c.UILabel != "" && cur.UILabel == "" {
				cur.UILabel = c.UILabel
				cur.Members = c.Members
			}
		}
	}

	addAll(llmCands, llmWeight)
	addAll(ruleCands, ruleWeight)

	for t, c := range merged {
		if c.votes >= 2 {
			c.Fit = min(1.0, c.Fit+0.08)
		}
		// RC19 is the only emotion-shift type; nudge it when present.
		if t == "RC19" {
			c.Fit = min(1.0, c.Fit+0.03)
		}
		c.Fit = round4(min(1.0, c.Fit))
	}

	// Notice pairing: keep RC28 within reach of RC27.
	if r27, ok := merged["RC27"]; ok {
		if r28, ok := merged["RC28"]; ok && r28.Fit < r27.Fit-0.08 {
			r28.Fit = round4(min(1.0, r27.Fit-0.08))
		}
	}

	out := make([]Candidate, 0, len(merged))
	for _, t := range order {
		out = append(out, merged[t].Candidate)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fit > out[j].Fit })
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
