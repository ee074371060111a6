package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"consentd/internal/consent"
	"consentd/pkg/platform/sentinel"
)

// PostgresStore delegates the atomic check-and-insert to the
// log_consent_if_allowed stored procedure (reference SQL under migrations/).
// The procedure serializes per-user via an advisory transaction lock, so
// concurrent submissions from the same user cannot both pass the quota check.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a postgres-backed store on an established pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// CheckAndInsert calls the stored procedure and scans its boolean decision.
func (s *PostgresStore) CheckAndInsert(ctx context.Context, rec consent.Record, policy consent.RatePolicy) (bool, error) {
	scopesJSON, err := json.Marshal(rec.Scopes)
	if err != nil {
		return false, fmt.Errorf("marshal consent scopes: %w", err)
	}

	var allowed bool
	err = s.pool.QueryRow(ctx,
		`SELECT log_consent_if_allowed($1, $2, $3, $4, $5, $6)`,
		rec.UserID,
		rec.Version,
		scopesJSON,
		int(policy.Window.Seconds()),
		policy.MaxRequests,
		policy.BurstMax,
	).Scan(&allowed)
	if err != nil {
		return false, fmt.Errorf("log_consent_if_allowed: %w: %v", sentinel.ErrUnavailable, err)
	}
	return allowed, nil
}

// Health verifies store connectivity.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
