// Package classify recommends item types for a passage. Two scorers
// run side by side, a deterministic rule scorer and an LLM router, and
// their candidates are merged, length-gated, and ranked.
package classify

import (
	"context"
	"strings"

	"github.com/abhisek/itemforge/internal/llm"
)

// Classifier suggests item types for raw passages. A nil Provider
// disables the LLM scorer and the rules carry the suggestion alone.
type Classifier struct {
	Provider llm.Provider
}

func New(p llm.Provider) *Classifier {
	return &Classifier{Provider: p}
}

// gateByBand drops candidates outside the allowed set. When that would
// empty the list entirely, the input is returned unchanged with a false
// flag so callers always get a usable ranking.
func gateByBand(cands []Candidate, allowed map[string]bool) ([]Candidate, bool) {
	gated := make([]Candidate, 0, len(cands))
	for _, cand := range cands {
		if allowed[cand.Type] {
			gated = append(gated, cand)
		}
	}
	if len(gated) == 0 {
		return cands, false
	}
	return gated, true
}

// Suggest merges rule and LLM candidates, applies the length gate, and
// returns the top types. When the gate would empty the list entirely,
// the ungated ranking is returned with GateApplied false so callers
// always get a usable suggestion.
func (c *Classifier) Suggest(ctx context.Context, passage string, topK int) Suggestion {
	ruleCands := RuleCandidates(passage)
	llmCands := llmCandidates(ctx, c.Provider, passage)

	merged := mergeCandidates(llmCands, ruleCands)

	tokens := len(strings.Fields(passage))
	band := lengthBand(tokens)
	allowed := allowedForBand(band)

	final, gateApplied := gateByBand(merged, allowed)

	k := topK
	if k < 1 {
		k = 5
	}
	k = max(1, min(5, k))
	top := make([]string, 0, k)
	for _, cand := range final {
		if len(top) == k {
			break
		}
		top = append(top, cand.Type)
	}

	return Suggestion{
		OK: true,
		Meta: Meta{
			Band:        band,
			GateApplied: gateApplied,
			Tokens:      tokens,
			Sources:     SourceCounts{LLM: len(llmCands), Rule: len(ruleCands)},
		},
		Candidates: final,
		Top:        top,
	}
}
