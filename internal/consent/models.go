// Package consent defines the consent submission domain: the persisted
// record, the outcome taxonomy, and the atomic store contract that couples
// the rate-limit decision to the insert.
package consent

import (
	"time"
)

// Outcome classifies how a consent submission ended. Every request maps to
// exactly one outcome, which drives both the HTTP status and the metric event.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeRateLimited      Outcome = "rate_limited"
	OutcomeInvalid          Outcome = "invalid"
	OutcomeUnauthorized     Outcome = "unauthorized"
	OutcomeError            Outcome = "error"
	OutcomeMethodNotAllowed Outcome = "method_not_allowed"
)

// Record is the persisted consent decision. Created exactly once per accepted
// request; never mutated or deleted by this service (retention is an external
// concern). CreatedAt is assigned by the store.
type Record struct {
	UserID  string
	Version string
	Scopes  map[string]bool
}

// NewRecord builds a Record from a verified user and canonical scope list.
func NewRecord(userID, version string, scopeIDs []string) Record {
	scopes := make(map[string]bool, len(scopeIDs))
	for _, id := range scopeIDs {
		scopes[id] = true
	}
	return Record{UserID: userID, Version: version, Scopes: scopes}
}

// RatePolicy carries the quota parameters handed to the atomic
// check-and-insert operation.
type RatePolicy struct {
	Window      time.Duration
	MaxRequests int
	// BurstMax additionally bounds submissions within the shorter burst
	// sub-window. Zero disables the burst check.
	BurstMax int
}

// maxBurstWindow is the burst sub-window used by the stores this package
// implements. The postgres procedure applies the same sizing on its side.
const maxBurstWindow = 10 * time.Second

// BurstWindow returns the burst sub-window for a policy: 10 seconds, capped
// at the long window so burst is never looser than the window itself.
func (p RatePolicy) BurstWindow() time.Duration {
	if p.Window < maxBurstWindow {
		return p.Window
	}
	return maxBurstWindow
}
