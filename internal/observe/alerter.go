package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"consentd/internal/consent"
	"consentd/internal/platform/metrics"
)

const alertTimeout = 3 * time.Second

// Alerter posts sampled metric events to an operator webhook. Delivery is
// fire-and-forget: a failed or slow webhook never affects the request path.
type Alerter struct {
	webhookURL string
	sampler    *Sampler
	logger     *slog.Logger
	metrics    *metrics.Metrics
	client     *http.Client

	// post hands an event off for delivery; swapped in tests to observe
	// deliveries synchronously.
	post func(ev MetricEvent)
}

// NewAlerter builds an alerter for the given webhook. Returns nil when no
// webhook is configured so callers can skip alerting entirely.
func NewAlerter(webhookURL string, sampler *Sampler, logger *slog.Logger, m *metrics.Metrics) *Alerter {
	if webhookURL == "" {
		return nil
	}
	a := &Alerter{
		webhookURL: webhookURL,
		sampler:    sampler,
		logger:     logger,
		metrics:    m,
		client:     &http.Client{Timeout: alertTimeout},
	}
	a.post = func(ev MetricEvent) { go a.deliver(ev) }
	return a
}

// Notify sends an alert for non-success outcomes that pass the sampler.
// The delivery runs on its own goroutine.
func (a *Alerter) Notify(ev MetricEvent) {
	if ev.Outcome == consent.OutcomeSuccess {
		return
	}
	if !a.sampler.ShouldSample(ev.Outcome) {
		return
	}
	a.post(ev)
}

func (a *Alerter) deliver(ev MetricEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
	defer cancel()

	payload, err := json.Marshal(map[string]any{
		"text":  fmt.Sprintf("consent %s (%s) request_id=%s status=%d", ev.Outcome, ev.Reason, ev.RequestID, ev.Status),
		"event": ev,
	})
	if err != nil {
		a.metrics.AlertsFailed.Inc()
		a.logger.Warn("alert payload marshal failed", "error", err)
		return
	}

	a.metrics.AlertsSent.Inc()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(payload))
	if err != nil {
		a.metrics.AlertsFailed.Inc()
		a.logger.Warn("alert request build failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.metrics.AlertsFailed.Inc()
		a.logger.Warn("alert delivery failed", "error", err, "request_id", ev.RequestID)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.metrics.AlertsFailed.Inc()
		a.logger.Warn("alert webhook rejected event", "status", resp.StatusCode, "request_id", ev.RequestID)
	}
}
