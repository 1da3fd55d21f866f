// Package classify recommends exam item types for a passage. Two
// scorers run side by side: a deterministic rule scorer built on
// surface and discourse signals, and an LLM scorer driven by a grading
// rubric. Their candidates are merged with fixed weights and the result
// is gated by passage length.
package classify

// Candidate is one recommended item type with its confidence.
type Candidate struct {
	Type     string  `json:"type"`
	Fit      float64 `json:"fit"`
	Reason   string  `json:"reason"`
	PrepHint string  `json:"prep_hint"`

	// UILabel and Members are set when several codes collapse into a
	// single set-type recommendation (e.g. RC41+RC42).
	UILabel string   `json:"ui_label,omitempty"`
	Members []string `json:"members,omitempty"`
}

// SourceCounts reports how many candidates each scorer produced.
type SourceCounts struct {
	LLM  int `json:"llm"`
	Rule int `json:"rule"`
}

// Meta carries the classification context alongside the candidates.
type Meta struct {
	// Band is the length band the passage fell into.
	Band string `json:"band"`

	// GateApplied is false when the length gate removed every
	// candidate and the ungated ranking was used instead.
	GateApplied bool `json:"gate_applied"`

	// Tokens is the whitespace token count used for banding.
	Tokens int `json:"tokens"`

	Sources SourceCounts `json:"sources"`
}

// Suggestion is the classifier's answer for one passage.
type Suggestion struct {
	OK         bool        `json:"ok"`
	Meta       Meta        `json:"meta"`
	Candidates []Candidate `json:"candidates"`
	Top        []string    `json:"top"`
}
