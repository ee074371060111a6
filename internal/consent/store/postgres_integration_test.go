//go:build integration

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"consentd/internal/consent"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("consent"),
		tcpostgres.WithUsername("consent"),
		tcpostgres.WithPassword("consent"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.pool = pool

	migration, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_log_consent.sql"))
	s.Require().NoError(err)
	_, err = pool.Exec(ctx, string(migration))
	s.Require().NoError(err)

	s.store = NewPostgres(pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE consent_logs")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestQuotaEnforced() {
	ctx := context.Background()
	policy := consent.RatePolicy{Window: 60 * time.Second, MaxRequests: 5}

	for i := 0; i < 5; i++ {
		allowed, err := s.store.CheckAndInsert(ctx, record("user-1"), policy)
		s.Require().NoError(err)
		s.True(allowed)
	}

	allowed, err := s.store.CheckAndInsert(ctx, record("user-1"), policy)
	s.Require().NoError(err)
	s.False(allowed)

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx,
		"SELECT count(*) FROM consent_logs WHERE user_id = $1", "user-1").Scan(&count))
	s.Equal(5, count)
}

func (s *PostgresStoreSuite) TestOtherUsersUnaffected() {
	ctx := context.Background()
	policy := consent.RatePolicy{Window: 60 * time.Second, MaxRequests: 1}

	allowed, err := s.store.CheckAndInsert(ctx, record("user-1"), policy)
	s.Require().NoError(err)
	s.True(allowed)

	allowed, err = s.store.CheckAndInsert(ctx, record("user-2"), policy)
	s.Require().NoError(err)
	s.True(allowed)
}

func (s *PostgresStoreSuite) TestScopesPersistedAsJSON() {
	ctx := context.Background()
	rec := consent.NewRecord("user-3", "v2.1", []string{"analytics", "marketing"})

	allowed, err := s.store.CheckAndInsert(ctx, rec, consent.RatePolicy{Window: time.Minute, MaxRequests: 5})
	s.Require().NoError(err)
	s.True(allowed)

	var version string
	var analytics bool
	s.Require().NoError(s.pool.QueryRow(ctx,
		"SELECT version, (scopes->>'analytics')::boolean FROM consent_logs WHERE user_id = $1", "user-3").
		Scan(&version, &analytics))
	s.Equal("v2.1", version)
	s.True(analytics)
}
