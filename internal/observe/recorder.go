package observe

import (
	"context"
	"log/slog"
	"time"

	"github.com/mssola/useragent"
	"golang.org/x/sync/errgroup"

	"consentd/internal/consent"
	"consentd/internal/platform/metrics"
	"consentd/internal/privacy"
	"consentd/pkg/requestcontext"
)

// Sample holds the raw per-request inputs the recorder pseudonymizes.
type Sample struct {
	Outcome       consent.Outcome
	Reason        string
	Endpoint      string
	Status        int
	PolicyVersion string
	ScopeCount    int
	UserID        string
	Duration      time.Duration
}

// Recorder builds MetricEvents from request samples, updates Prometheus
// counters, logs the event, and forwards it to the alerter.
type Recorder struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	hasher  *privacy.Hasher
	alerter *Alerter
}

// NewRecorder wires a recorder. The alerter may be nil when no webhook is
// configured.
func NewRecorder(logger *slog.Logger, m *metrics.Metrics, hasher *privacy.Hasher, alerter *Alerter) *Recorder {
	return &Recorder{logger: logger, metrics: m, hasher: hasher, alerter: alerter}
}

// Record emits the metric event for one finished submission. The client IP
// and User-Agent are taken from the request context; hashes are computed
// concurrently since each digest is independent.
func (r *Recorder) Record(ctx context.Context, s Sample) MetricEvent {
	ev := MetricEvent{
		Timestamp:     requestcontext.Now(ctx).UTC(),
		RequestID:     requestcontext.RequestID(ctx),
		Outcome:       s.Outcome,
		Reason:        s.Reason,
		Endpoint:      s.Endpoint,
		Status:        s.Status,
		PolicyVersion: s.PolicyVersion,
		ScopeCount:    s.ScopeCount,
		HashVersion:   r.hasher.Version(),
		DurationMS:    s.Duration.Milliseconds(),
	}

	ip := requestcontext.ClientIP(ctx)
	ua := requestcontext.UserAgent(ctx)

	var g errgroup.Group
	g.Go(func() error { ev.IPHash = r.hasher.HashIP(ip); return nil })
	g.Go(func() error { ev.UAHash = r.hasher.HashUserAgent(ua); return nil })
	g.Go(func() error { ev.UserHash = r.hasher.Hash(s.UserID); return nil })
	_ = g.Wait()

	if ua != "" {
		parsed := useragent.New(ua)
		name, _ := parsed.Browser()
		ev.UAFamily = name
	}

	r.metrics.ConsentOutcomes.WithLabelValues(string(ev.Outcome)).Inc()
	r.metrics.ConsentLatency.Observe(s.Duration.Seconds())

	r.logger.InfoContext(ctx, "consent submission",
		"outcome", ev.Outcome,
		"reason", ev.Reason,
		"status", ev.Status,
		"policy_version", ev.PolicyVersion,
		"scope_count", ev.ScopeCount,
		"ip_hash", ev.IPHash,
		"ua_hash", ev.UAHash,
		"user_hash", ev.UserHash,
		"hash_version", ev.HashVersion,
		"ua_family", ev.UAFamily,
		"duration_ms", ev.DurationMS,
	)

	if r.alerter != nil {
		r.alerter.Notify(ev)
	}
	return ev
}
