// Package observe turns consent submission outcomes into structured metric
// events, Prometheus counters, and sampled webhook alerts. All client
// identifiers are pseudonymized before they leave the handler.
package observe

import (
	"time"

	"consentd/internal/consent"
)

// MetricEvent is the structured record emitted once per consent submission.
// It carries hashes, never raw identifiers.
type MetricEvent struct {
	Timestamp     time.Time       `json:"ts"`
	RequestID     string          `json:"request_id"`
	Outcome       consent.Outcome `json:"outcome"`
	Reason        string          `json:"reason,omitempty"`
	Endpoint      string          `json:"endpoint"`
	Status        int             `json:"status"`
	PolicyVersion string          `json:"policy_version,omitempty"`
	ScopeCount    int             `json:"scope_count"`
	IPHash        string          `json:"ip_hash,omitempty"`
	UAHash        string          `json:"ua_hash,omitempty"`
	UserHash      string          `json:"user_hash,omitempty"`
	HashVersion   string          `json:"hash_version"`
	UAFamily      string          `json:"ua_family,omitempty"`
	DurationMS    int64           `json:"duration_ms"`
}
