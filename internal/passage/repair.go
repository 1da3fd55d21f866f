package passage

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/itemforge/internal/llm"
)

// Repairer restores a sanitized passage to a semantically whole text:
// the one wrong candidate left over from a previous item gets replaced,
// and every <<BLANK_n>> token gets filled.
type Repairer struct {
	Provider llm.Provider
}

const repairSystem = `You are a careful English editor for CSAT passages.
TASK:
1) Exactly ONE of the previously marked candidates (①~⑤) was wrong. Replace ONLY that one with a contextually and grammatically correct alternative.
2) Fill every placeholder token <<BLANK_n>> with a suitable word/phrase/sentence that fits the context and grammar.
3) Do NOT add or remove other content. Keep length and meaning as close as possible to the original, aside from the required fixes.
4) Output JSON ONLY, no code fences: {"passage": "..."}
5) Do NOT re-introduce any ①~⑤ or placeholder tokens.
`

// RepairSemantics asks the LLM to fix a sanitized passage. It never
// fails: when the call does not produce a usable passage, the blank
// tokens are stripped and the text is returned as-is.
func (r *Repairer) RepairSemantics(ctx context.Context, clean string, meta Meta) string {
	ctx = llm.WithPurpose(ctx, llm.PurposePassageRepair)

	user := fmt.Sprintf(
		"PASSAGE (markers removed, placeholders present):\n%s\n\nCandidates previously marked (for your reference): %s\nNumber of placeholders to fill: %d\nReturn JSON only: {\"passage\": \"<final fixed passage>\"}",
		clean, candidatePreview(meta.Candidates), meta.BlankCount,
	)

	res := llm.CallJSON(ctx, r.Provider, repairSystem, user, llm.CallOptions{
		Temperature: 0.0,
		MaxTokens:   2000,
	})

	if res.OK {
		if fixed, ok := res.Data["passage"].(string); ok && fixed != "" {
			return fixed
		}
	}
	return StripBlankTokens(clean)
}

// Retarget sanitizes and repairs a passage in one step. This is the
// entry point the generation pipeline uses when an item needs a
// markup-free passage.
func (r *Repairer) Retarget(ctx context.Context, raw string) string {
	clean, meta := Sanitize(raw)
	return r.RepairSemantics(ctx, clean, meta)
}

func candidatePreview(cands []MarkedPhrase) string {
	if len(cands) == 0 {
		return "-"
	}
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.Mark + ":" + c.Phrase
	}
	return strings.Join(parts, "; ")
}
