// Package itemspec defines the per-item-type specification contract:
// prompt construction, output normalization, validation, bounded
// repair, and the optional quote sub-protocol, plus the registry that
// resolves type codes (including aliases, family prefixes, and
// numeric-range set codes) to specification singletons.
package itemspec

import "time"

// GenContext carries the inputs to one generation attempt. It is built
// fresh for each attempt and never mutated by specifications.
type GenContext struct {
	ItemID     string
	Difficulty string // easy|medium|hard
	Topic      string // detail code or "random"
	Passage    string
	Mode       string // "generate" or "quote"
}

// Budget bounds the repair loop for one generation attempt.
type Budget struct {
	// Fixer is the number of repair->revalidate rounds after the
	// first validation failure.
	Fixer int
	// Regen is the number of full regeneration rounds the caller may
	// spend when repair cannot save the output.
	Regen int
	// Timeout bounds one LLM round trip spent generating this type.
	Timeout time.Duration
}

// Spec is the capability set every item type implements. Specs are
// stateless singletons shared read-only across concurrent requests.
type Spec interface {
	// ID is the canonical item code, e.g. "RC23".
	ID() string

	// SystemPrompt is the system message for the generic generation
	// path.
	SystemPrompt() string

	// BuildPrompt assembles the user prompt for the generic path.
	BuildPrompt(ctx GenContext) string

	// Normalize coerces loosely shaped model output into the item's
	// canonical layout. It returns an error only when the output is
	// beyond salvage and a regeneration is the right move.
	Normalize(raw map[string]any) (map[string]any, error)

	// Validate checks the normalized item and returns a descriptive
	// error on the first violation.
	Validate(item map[string]any) error

	// Budget declares how much repair effort this type is worth.
	Budget() Budget
}

// Repairer is implemented by specs that can mend an almost-valid item
// without another LLM round trip.
type Repairer interface {
	Repair(item map[string]any, ctx GenContext) map[string]any
}

// SelfChecker is implemented by specs with post-validation advisories.
// Returned issue strings fail the attempt at the orchestrator.
type SelfChecker interface {
	SelfChecks(item map[string]any, passage string) []string
}

// QuoteSpec is the quote sub-protocol: the caller's passage is
// reproduced essentially verbatim and the model only supplies the
// question apparatus around it.
type QuoteSpec interface {
	QuoteBuildPrompt(passage string) string
	QuotePostprocess(passage string, raw map[string]any) (map[string]any, error)
	QuoteValidate(item map[string]any) error
}

// SupportsQuote reports whether a spec implements the quote
// sub-protocol.
func SupportsQuote(s Spec) bool {
	_, ok := s.(QuoteSpec)
	return ok
}

func defaultBudget() Budget {
	return Budget{Fixer: 1, Regen: 1, Timeout: 15 * time.Second}
}
