package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"consentd/pkg/platform/cors"
	"consentd/pkg/requestcontext"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	logger *slog.Logger
	cors   cors.Options
}

// NewHealthHandler builds the health endpoint handler.
func NewHealthHandler(logger *slog.Logger, corsOpts cors.Options) *HealthHandler {
	return &HealthHandler{logger: logger, cors: corsOpts}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cors.Apply(w, r.Header.Get("Origin"), h.cors)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
		// handled below
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	now := requestcontext.Now(ctx)
	h.logger.InfoContext(ctx, "health check",
		"request_id", requestcontext.RequestID(ctx),
	)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":        true,
		"timestamp": now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
