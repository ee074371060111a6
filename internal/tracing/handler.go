// Package tracing serves the trace diagnostic endpoint: an authenticated
// probe that starts a span and returns its trace id so operators can confirm
// the tracing pipeline end to end.
package tracing

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"consentd/internal/identity"
	"consentd/pkg/platform/cors"
	"consentd/pkg/requestcontext"
)

// Handler serves POST /v1/trace-test.
type Handler struct {
	logger   *slog.Logger
	verifier identity.Verifier
	tracer   trace.Tracer
	cors     cors.Options
}

// NewHandler builds the diagnostic handler with its own tracer provider.
// Spans are recorded but not exported; the endpoint only proves that span
// and trace ids are being minted.
func NewHandler(logger *slog.Logger, verifier identity.Verifier, corsOpts cors.Options) *Handler {
	provider := sdktrace.NewTracerProvider()
	return &Handler{
		logger:   logger,
		verifier: verifier,
		tracer:   provider.Tracer("consentd/tracing"),
		cors:     corsOpts,
	}
}

// Register mounts the trace diagnostic route.
func (h *Handler) Register(r chi.Router) {
	r.HandleFunc("/v1/trace-test", h.ServeHTTP)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	cors.Apply(w, r.Header.Get("Origin"), h.cors)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"error":      "method not allowed",
			"request_id": requestID,
		})
		return
	}

	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":      "missing bearer credential",
			"reason":     "missing_authorization",
			"request_id": requestID,
		})
		return
	}
	if _, err := h.verifier.Verify(ctx, auth[len(prefix):]); err != nil {
		h.logger.WarnContext(ctx, "trace-test auth failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":      "could not verify credentials",
			"reason":     "auth_failed",
			"request_id": requestID,
		})
		return
	}

	spanCtx, span := h.tracer.Start(ctx, "trace-test")
	span.End()

	traceID := trace.SpanContextFromContext(spanCtx).TraceID().String()
	h.logger.InfoContext(ctx, "trace diagnostic span recorded",
		"request_id", requestID,
		"trace_id", traceID,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"trace_id":   traceID,
		"request_id": requestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
