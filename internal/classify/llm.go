package classify

import (
	"context"
	"regexp"
	"strings"

	"github.com/abhisek/itemforge/internal/llm"
	"github.com/abhisek/itemforge/internal/prompts"
)

var typeCodeRE = regexp.MustCompile(`^(RC|LC)\d`)

// llmCandidates asks the routing prompt for type recommendations. Any
// failure, provider, parse, or policy, yields an empty list so the
// rule scorer can carry the suggestion alone.
func llmCandidates(ctx context.Context, p llm.Provider, passage string) []Candidate {
	if p == nil {
		return nil
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeTypeRouter)
	res := llm.CallJSON(ctx, p, prompts.RouterSystem, prompts.RouterUser(passage), llm.CallOptions{
		Temperature: 0.2,
		MaxTokens:   600,
	})
	return normalizeLLMCandidates(res)
}

// normalizeLLMCandidates filters the raw routing response down to
// well-formed candidates. Malformed entries are dropped silently.
func normalizeLLMCandidates(res llm.CallResult) []Candidate {
	if !res.OK {
		return nil
	}
	// The model can decline inside an otherwise well-formed payload.
	if ok, isBool := res.Data["ok"].(bool); isBool && !ok {
		return nil
	}
	raw, _ := res.Data["candidates"].([]any)
	var out []Candidate
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		t, _ := m["type"].(string)
		t = strings.TrimSpace(t)
		if !typeCodeRE.MatchString(t) {
			continue
		}
		fit, ok := asFloat(m["fit"])
		if !ok || fit < 0.0 || fit > 1.0 {
			continue
		}
		reason, _ := m["reason"].(string)
		hint, _ := m["prep_hint"].(string)
		if hint = strings.TrimSpace(hint); hint == "" {
			hint = "-"
		}
		out = append(out, Candidate{
			Type:     t,
			Fit:      fit,
			Reason:   trimReason(reason, 200),
			PrepHint: trimReason(hint, 200),
		})
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
