// Package generate drives batch item generation: each requested
// (type, repetition) pair runs as an isolated attempt through the
// resolved specification's hooks, and every outcome, success or
// failure, becomes one envelope in the batch result. Nothing an
// individual attempt does can abort its siblings.
package generate

// BatchRequest asks for items of the given types built from one
// passage.
type BatchRequest struct {
	Passage    string
	Types      []string
	NPerType   int
	Difficulty string // easy|medium|hard, defaults to medium
	Seed       int
}

// Envelope wraps the outcome of one generation attempt.
type Envelope struct {
	OK      bool           `json:"ok"`
	Item    map[string]any `json:"item,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   *ErrorDetail   `json:"error,omitempty"`
	Meta    Meta           `json:"meta"`
}

// ErrorDetail carries the truncated technical detail of a failed
// attempt.
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// Meta identifies which attempt an envelope belongs to.
type Meta struct {
	// Type is the code the caller requested, ItemID the canonical code
	// it resolved to.
	Type   string `json:"type"`
	ItemID string `json:"item_id"`

	Seed int `json:"seed,omitempty"`

	// Mode is "quote" when the passage was reproduced verbatim by the
	// quote sub-protocol, "compat" for the generic path.
	Mode string `json:"mode,omitempty"`

	TraceID string `json:"trace_id"`
}

// FailMessage is the fixed user-facing message on every failure
// envelope; the technical detail lives in Error.
const FailMessage = "The generated item was invalid. Please generate again."

const maxDetailLen = 300

func failEnvelope(meta Meta, detail string) Envelope {
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen]
	}
	return Envelope{
		OK:      false,
		Message: FailMessage,
		Error:   &ErrorDetail{Detail: detail},
		Meta:    meta,
	}
}
