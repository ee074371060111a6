package observe

import (
	"math/rand"
	"sync"

	"consentd/internal/consent"
)

// Sampler decides which alert-worthy events actually produce a webhook call.
// High-volume outcomes are sampled down; the error outcome always passes.
type Sampler struct {
	mu            sync.RWMutex
	defaultRate   float64
	rateByOutcome map[consent.Outcome]float64
}

// NewSampler creates a sampler with the given default rate, clamped to
// [0.0, 1.0]. The error outcome is pinned to full sampling.
func NewSampler(defaultRate float64) *Sampler {
	return &Sampler{
		defaultRate: clampRate(defaultRate),
		rateByOutcome: map[consent.Outcome]float64{
			consent.OutcomeError: 1.0,
		},
	}
}

// ShouldSample returns true if an alert for this outcome should be sent.
func (s *Sampler) ShouldSample(outcome consent.Outcome) bool {
	rate := s.rateFor(outcome)
	if rate >= 1 {
		return true
	}
	return rand.Float64() < rate //nolint:gosec // sampling doesn't need crypto rand
}

// SetRate overrides the rate for a specific outcome.
func (s *Sampler) SetRate(outcome consent.Outcome, rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateByOutcome[outcome] = clampRate(rate)
}

func (s *Sampler) rateFor(outcome consent.Outcome) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rate, ok := s.rateByOutcome[outcome]; ok {
		return rate
	}
	return s.defaultRate
}

func clampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
