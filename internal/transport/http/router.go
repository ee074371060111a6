// Package httptransport assembles the HTTP surface: middleware chain, health
// and metrics endpoints, and the consent and trace routes. It delegates to
// domain handlers and keeps no business logic of its own.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	consenthandler "consentd/internal/consent/handler"
	"consentd/internal/tracing"
	"consentd/pkg/platform/cors"
	"consentd/pkg/platform/middleware/metadata"
	"consentd/pkg/platform/middleware/requestid"
	"consentd/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger  *slog.Logger
	Consent *consenthandler.Handler
	Trace   *tracing.Handler
	CORS    cors.Options
	// IPRatePerMinute is a coarse per-client-IP pre-limit in front of the
	// consent and trace routes. Zero disables it; the per-user quota in the
	// store still applies either way.
	IPRatePerMinute int
}

// NewRouter wires the middleware chain and all public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/healthz", NewHealthHandler(deps.Logger, deps.CORS).ServeHTTP)

	r.Group(func(gr chi.Router) {
		if deps.IPRatePerMinute > 0 {
			gr.Use(httprate.LimitByIP(deps.IPRatePerMinute, time.Minute))
		}
		deps.Consent.Register(gr)
		deps.Trace.Register(gr)
	})

	return r
}
