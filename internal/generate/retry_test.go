package generate

import (
	"math"
	"testing"
)

func TestRetryParamsAttemptZeroUnchanged(t *testing.T) {
	base := CallParams{Temperature: 0.6, Seed: 42}
	if got := RetryParams(0, base); got != base {
		t.Fatalf("attempt 0 changed params: %+v", got)
	}
}

func TestRetryParamsTemperatureSteps(t *testing.T) {
	base := CallParams{Temperature: 0.6, Seed: 42}

	first := RetryParams(1, base)
	if math.Abs(first.Temperature-0.7) > 1e-9 {
		t.Fatalf("attempt 1 temperature = %v, want 0.7", first.Temperature)
	}
	second := RetryParams(2, base)
	if math.Abs(second.Temperature-0.8) > 1e-9 {
		t.Fatalf("attempt 2 temperature = %v, want 0.8", second.Temperature)
	}
	// Later attempts step from the base, not from each other.
	fifth := RetryParams(5, base)
	if math.Abs(fifth.Temperature-0.8) > 1e-9 {
		t.Fatalf("attempt 5 temperature = %v, want 0.8", fifth.Temperature)
	}
}

func TestRetryParamsTemperatureCapped(t *testing.T) {
	got := RetryParams(2, CallParams{Temperature: 0.95})
	if got.Temperature > 1.0 {
		t.Fatalf("temperature exceeds cap: %v", got.Temperature)
	}
}

func TestRetryParamsFreshSeedInRange(t *testing.T) {
	for attempt := 1; attempt <= 3; attempt++ {
		got := RetryParams(attempt, CallParams{Temperature: 0.2, Seed: 0})
		if got.Seed < 1 || got.Seed > maxSeed {
			t.Fatalf("attempt %d seed %d out of range", attempt, got.Seed)
		}
	}
}
