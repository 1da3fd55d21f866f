package llm

import "context"

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purpose labels used by the generation pipeline. Callers may attach
// arbitrary labels; these cover the built-in call sites.
const (
	PurposeTypeRouter    = "type-router"
	PurposeItemGen       = "item-gen"
	PurposeItemFixer     = "item-fixer"
	PurposePassageRepair = "passage-repair"
)

// WithPurpose attaches a purpose label to the context for request logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
