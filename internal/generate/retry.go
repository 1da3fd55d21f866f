package generate

import (
	"math"
	"math/rand"
)

// CallParams are the tunable parameters of one generation call.
type CallParams struct {
	Temperature float64
	Seed        int
}

const maxSeed = 10_000_000

// RetryParams derives the parameters for a regeneration attempt from
// the original ones. The first retry nudges the temperature up a
// little, later retries a bit more, both capped at 1.0; every retry
// gets a fresh seed. Attempt 0 returns the base unchanged.
func RetryParams(attempt int, base CallParams) CallParams {
	next := base
	switch {
	case attempt <= 0:
		return next
	case attempt == 1:
		next.Temperature = math.Min(base.Temperature+0.1, 1.0)
	default:
		next.Temperature = math.Min(base.Temperature+0.2, 1.0)
	}
	next.Seed = 1 + rand.Intn(maxSeed)
	return next
}
