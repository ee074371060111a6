// Package store provides the backing-store implementations of the atomic
// consent check-and-insert operation: postgres (stored procedure), redis
// (Lua script), and an in-memory store for tests and local development.
package store

import (
	"context"
	"sync"
	"time"

	"consentd/internal/consent"
	"consentd/pkg/requestcontext"
)

// MemoryStore implements the check-and-insert contract with an in-process
// lock. Suitable for tests and single-instance local runs only.
type MemoryStore struct {
	mu      sync.Mutex
	events  map[string][]time.Time
	records map[string][]consent.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		events:  make(map[string][]time.Time),
		records: make(map[string][]consent.Record),
	}
}

// CheckAndInsert applies the sliding-window and burst quota for the user and
// records the consent when allowed. The decision and the write happen under
// one lock, mirroring the atomicity the server-side procedure provides.
func (s *MemoryStore) CheckAndInsert(ctx context.Context, rec consent.Record, policy consent.RatePolicy) (bool, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	windowStart := now.Add(-policy.Window)
	events := s.events[rec.UserID]
	kept := events[:0]
	for _, t := range events {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}
	s.events[rec.UserID] = kept

	if len(kept) >= policy.MaxRequests {
		return false, nil
	}
	if policy.BurstMax > 0 {
		burstStart := now.Add(-policy.BurstWindow())
		burst := 0
		for _, t := range kept {
			if t.After(burstStart) {
				burst++
			}
		}
		if burst >= policy.BurstMax {
			return false, nil
		}
	}

	s.events[rec.UserID] = append(kept, now)
	s.records[rec.UserID] = append(s.records[rec.UserID], rec)
	return true, nil
}

// Records returns the persisted records for a user. Test helper.
func (s *MemoryStore) Records(userID string) []consent.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]consent.Record{}, s.records[userID]...)
}
