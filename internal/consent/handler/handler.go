// Package handler orchestrates a consent submission: method and credential
// checks, payload validation against the scope registry, identity
// verification, then the atomic rate-limit-and-insert. Every branch ends in
// exactly one response and one metric event.
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"consentd/internal/consent"
	"consentd/internal/identity"
	"consentd/internal/observe"
	"consentd/internal/scopes"
	"consentd/pkg/domain"
	"consentd/pkg/platform/cors"
	"consentd/pkg/requestcontext"
)

// Reasons reported on unauthorized and invalid responses. Scope-specific
// reasons come from the scopes package.
const (
	ReasonMissingAuthorization = "missing_authorization"
	ReasonInvalidJSON          = "invalid_json"
	ReasonMissingPolicyVersion = "missing_policy_version"
	ReasonInvalidVersionFormat = "invalid_version_format"
	ReasonAuthFailed           = "auth_failed"
)

// submission is the consent request body. PolicyVersion is the primary field
// name; Version is the legacy alias. Scopes stays untyped until the
// normalizer classifies its shape.
type submission struct {
	PolicyVersion string `json:"policy_version"`
	Version       string `json:"version"`
	Scopes        any    `json:"scopes"`
	Source        string `json:"source,omitempty"`
	AppVersion    string `json:"appVersion,omitempty"`
}

// Handler serves the consent submission endpoint.
type Handler struct {
	logger   *slog.Logger
	store    consent.Store
	registry *scopes.Registry
	verifier identity.Verifier
	recorder *observe.Recorder
	policy   consent.RatePolicy
	cors     cors.Options
}

// New wires a consent Handler.
func New(
	logger *slog.Logger,
	store consent.Store,
	registry *scopes.Registry,
	verifier identity.Verifier,
	recorder *observe.Recorder,
	policy consent.RatePolicy,
	corsOpts cors.Options,
) *Handler {
	return &Handler{
		logger:   logger,
		store:    store,
		registry: registry,
		verifier: verifier,
		recorder: recorder,
		policy:   policy,
		cors:     corsOpts,
	}
}

// Register mounts the consent route. All methods land on ServeHTTP so the
// method check runs before any body handling.
func (h *Handler) Register(r chi.Router) {
	r.HandleFunc("/v1/consent", h.ServeHTTP)
}

// ServeHTTP runs the submission state machine. Short-circuit exits respond
// and emit a metric event without touching later stages.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	cors.Apply(w, r.Header.Get("Origin"), h.cors)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if r.Method != http.MethodPost {
		h.respondError(w, r, start, outcomeResult{
			outcome: consent.OutcomeMethodNotAllowed,
			status:  http.StatusMethodNotAllowed,
			message: fmt.Sprintf("method %s not allowed", r.Method),
		})
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		h.respondError(w, r, start, outcomeResult{
			outcome: consent.OutcomeUnauthorized,
			status:  http.StatusUnauthorized,
			reason:  ReasonMissingAuthorization,
			message: "missing bearer credential",
		})
		return
	}

	var req submission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, start, outcomeResult{
			outcome: consent.OutcomeInvalid,
			status:  http.StatusBadRequest,
			reason:  ReasonInvalidJSON,
			message: "request body is not valid JSON",
		})
		return
	}

	version := req.PolicyVersion
	if version == "" {
		version = req.Version
	}
	if version == "" {
		h.respondError(w, r, start, outcomeResult{
			outcome: consent.OutcomeInvalid,
			status:  http.StatusBadRequest,
			reason:  ReasonMissingPolicyVersion,
			message: "policy_version is required",
		})
		return
	}
	if parsed := domain.ParsePolicyVersion(version); !parsed.Valid {
		h.respondError(w, r, start, outcomeResult{
			outcome: consent.OutcomeInvalid,
			status:  http.StatusBadRequest,
			reason:  ReasonInvalidVersionFormat,
			message: parsed.Err,
			version: version,
		})
		return
	}

	entries, rejectErr := scopes.Normalize(req.Scopes)
	var granted []string
	if rejectErr == nil {
		granted, rejectErr = h.registry.Resolve(entries)
	}
	if rejectErr != nil {
		h.respondError(w, r, start, outcomeResult{
			outcome:       consent.OutcomeInvalid,
			status:        http.StatusBadRequest,
			reason:        rejectErr.Reason,
			message:       rejectErr.Message,
			version:       version,
			invalidValues: rejectErr.InvalidValues,
			invalidCount:  rejectErr.InvalidCount,
		})
		return
	}

	id, err := h.verifier.Verify(ctx, token)
	if err != nil {
		h.logger.WarnContext(ctx, "bearer token rejected",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		h.respondError(w, r, start, outcomeResult{
			outcome:    consent.OutcomeUnauthorized,
			status:     http.StatusUnauthorized,
			reason:     ReasonAuthFailed,
			message:    "could not verify credentials",
			version:    version,
			scopeCount: len(granted),
		})
		return
	}

	record := consent.NewRecord(id.UserID, version, granted)
	allowed, err := h.store.CheckAndInsert(ctx, record, h.policy)
	if err != nil {
		h.logger.ErrorContext(ctx, "consent store failure",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		h.respondError(w, r, start, outcomeResult{
			outcome:    consent.OutcomeError,
			status:     http.StatusInternalServerError,
			message:    "failed to record consent",
			version:    version,
			scopeCount: len(granted),
			userID:     id.UserID,
		})
		return
	}
	if !allowed {
		h.writeRateLimitHeaders(w)
		h.respondError(w, r, start, outcomeResult{
			outcome:    consent.OutcomeRateLimited,
			status:     http.StatusTooManyRequests,
			message:    "too many consent submissions, retry later",
			version:    version,
			scopeCount: len(granted),
			userID:     id.UserID,
		})
		return
	}

	requestID := requestcontext.RequestID(ctx)
	h.record(r, start, outcomeResult{
		outcome:    consent.OutcomeSuccess,
		status:     http.StatusCreated,
		version:    version,
		scopeCount: len(granted),
		userID:     id.UserID,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":         true,
		"request_id": requestID,
	})
}

// outcomeResult collects everything one terminal branch needs for the
// response body and the metric event.
type outcomeResult struct {
	outcome       consent.Outcome
	status        int
	reason        string
	message       string
	version       string
	scopeCount    int
	userID        string
	invalidValues []string
	invalidCount  int
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, start time.Time, res outcomeResult) {
	h.record(r, start, res)

	body := map[string]any{
		"error":      res.message,
		"request_id": requestcontext.RequestID(r.Context()),
	}
	if res.reason != "" {
		body["reason"] = res.reason
	}
	if res.invalidCount > 0 {
		body["invalidScopes"] = res.invalidValues
		body["invalidScopesCount"] = res.invalidCount
	}
	writeJSON(w, res.status, body)
}

func (h *Handler) record(r *http.Request, start time.Time, res outcomeResult) {
	h.recorder.Record(r.Context(), observe.Sample{
		Outcome:       res.outcome,
		Reason:        res.reason,
		Endpoint:      r.URL.Path,
		Status:        res.status,
		PolicyVersion: res.version,
		ScopeCount:    res.scopeCount,
		UserID:        res.userID,
		Duration:      time.Since(start),
	})
}

func (h *Handler) writeRateLimitHeaders(w http.ResponseWriter) {
	windowSeconds := int(h.policy.Window / time.Second)
	w.Header().Set("Retry-After", strconv.Itoa(windowSeconds))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(h.policy.MaxRequests))
	w.Header().Set("X-RateLimit-Burst", strconv.Itoa(h.policy.BurstMax))
	w.Header().Set("X-RateLimit-Remaining", "0")
}

// bearerToken extracts a non-empty bearer credential from the Authorization
// header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
