package consent

import (
	"context"
)

// Store executes the rate-limit check and the insert as one atomic operation
// against the backing store, so the quota check and the write cannot race
// across concurrent requests from the same user.
//
// CheckAndInsert returns (false, nil) when the quota is exceeded — nothing is
// written in that case. Store failures are returned as errors and must be
// distinguished from a denied decision by callers: they map to different HTTP
// statuses and metric outcomes.
type Store interface {
	CheckAndInsert(ctx context.Context, rec Record, policy RatePolicy) (allowed bool, err error)
}
