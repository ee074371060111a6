package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and outbound clients return
// these (optionally wrapped) so callers can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrUnavailable: store or upstream temporarily unreachable
// - ErrTimeout: operation exceeded its deadline
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrTimeout     = errors.New("timeout")
)
