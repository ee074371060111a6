package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ConsentOutcomes  *prometheus.CounterVec
	ConsentLatency   prometheus.Histogram
	AlertsSent       prometheus.Counter
	AlertsFailed     prometheus.Counter
	ScopeEntriesDrop prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ConsentOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "consentd_submissions_total",
			Help: "Consent submissions by outcome",
		}, []string{"outcome"}),
		ConsentLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentd_submission_duration_seconds",
			Help:    "End to end consent submission handling time",
			Buckets: prometheus.DefBuckets,
		}),
		AlertsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_alerts_sent_total",
			Help: "Outbound alert webhook deliveries attempted",
		}),
		AlertsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_alerts_failed_total",
			Help: "Outbound alert webhook deliveries that failed",
		}),
		ScopeEntriesDrop: promauto.NewCounter(prometheus.CounterOpts{
			Name: "consentd_scope_bundle_dropped_entries_total",
			Help: "Scope bundle entries dropped during registry load",
		}),
	}
}

// NewForTest creates metrics on a private registry so parallel tests don't
// collide on duplicate registration.
func NewForTest() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		ConsentOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentd_submissions_total",
			Help: "Consent submissions by outcome",
		}, []string{"outcome"}),
		ConsentLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name: "consentd_submission_duration_seconds",
			Help: "End to end consent submission handling time",
		}),
		AlertsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "consentd_alerts_sent_total",
			Help: "Outbound alert webhook deliveries attempted",
		}),
		AlertsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "consentd_alerts_failed_total",
			Help: "Outbound alert webhook deliveries that failed",
		}),
		ScopeEntriesDrop: factory.NewCounter(prometheus.CounterOpts{
			Name: "consentd_scope_bundle_dropped_entries_total",
			Help: "Scope bundle entries dropped during registry load",
		}),
	}
}
