package observe

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"consentd/internal/consent"
	"consentd/internal/platform/metrics"
	"consentd/internal/privacy"
	"consentd/pkg/requestcontext"
)

func testRecorder(t *testing.T, pepper string) *Recorder {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	return NewRecorder(logger, metrics.NewForTest(), privacy.NewHasher(pepper), nil)
}

func sampleCtx() context.Context {
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.42",
		"Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestRecordPseudonymizesIdentifiers(t *testing.T) {
	r := testRecorder(t, "pepper")
	hasher := privacy.NewHasher("pepper")

	ev := r.Record(sampleCtx(), Sample{
		Outcome:       consent.OutcomeSuccess,
		Endpoint:      "/v1/consent",
		Status:        201,
		PolicyVersion: "v2.1",
		ScopeCount:    2,
		UserID:        "user-123",
		Duration:      42 * time.Millisecond,
	})

	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, privacy.HashVersionHMAC, ev.HashVersion)
	assert.Equal(t, hasher.HashIP("203.0.113.42"), ev.IPHash)
	assert.Equal(t, hasher.Hash("user-123"), ev.UserHash)
	assert.NotEmpty(t, ev.UAHash)
	assert.Equal(t, "Firefox", ev.UAFamily)
	assert.Equal(t, int64(42), ev.DurationMS)

	// Raw identifiers must not leak into the event.
	assert.NotContains(t, ev.IPHash, "203.0.113")
	assert.NotEqual(t, "user-123", ev.UserHash)
}

func TestRecordWithoutPepperUsesUnkeyedHash(t *testing.T) {
	r := testRecorder(t, "")

	ev := r.Record(sampleCtx(), Sample{Outcome: consent.OutcomeInvalid, Status: 400})
	assert.Equal(t, privacy.HashVersionSHA256, ev.HashVersion)
}

func TestRecordEmptyMetadataYieldsEmptyHashes(t *testing.T) {
	r := testRecorder(t, "pepper")
	ctx := requestcontext.WithRequestID(context.Background(), "req-2")

	ev := r.Record(ctx, Sample{Outcome: consent.OutcomeUnauthorized, Status: 401})

	assert.Empty(t, ev.IPHash)
	assert.Empty(t, ev.UAHash)
	assert.Empty(t, ev.UserHash)
	assert.Empty(t, ev.UAFamily)
}

func TestRecordUsesRequestTime(t *testing.T) {
	r := testRecorder(t, "pepper")

	ev := r.Record(sampleCtx(), Sample{Outcome: consent.OutcomeSuccess, Status: 201})
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), ev.Timestamp)
}
