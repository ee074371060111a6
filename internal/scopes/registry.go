// Package scopes owns the canonical list of consent scope identifiers and the
// normalization of incoming scope payloads against it.
//
// The registry is loaded once at startup from the bundled artifact and is
// immutable afterwards, so concurrent request handlers read it without
// synchronization. The bundled artifact must be kept in sync with the root
// config/consent_scopes.json source of truth; a test enforces that.
package scopes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"consentd/pkg/domain"
)

//go:embed consent_scopes.json
var bundledArtifact []byte

// fallbackScopeIDs is the built-in list used when the bundled artifact is
// missing, malformed, or empty and strict mode is off.
var fallbackScopeIDs = []domain.ScopeID{
	"analytics",
	"marketing",
	"personalization",
	"functional",
	"health_insights",
	"crash_reporting",
}

// bundle mirrors the artifact shape: {version, scopes: [{id}]}.
type bundle struct {
	Version string        `json:"version"`
	Scopes  []bundleEntry `json:"scopes"`
}

type bundleEntry struct {
	ID string `json:"id"`
}

// Registry is the ordered set of valid scope identifiers.
type Registry struct {
	ids []domain.ScopeID
	set map[domain.ScopeID]struct{}
}

// LoadStats reports what happened during registry construction.
type LoadStats struct {
	BundleVersion string
	Dropped       int
	Deduplicated  int
	UsedFallback  bool
}

// Load builds the registry from the bundled artifact. Entries failing the
// scope-ID pattern are dropped; duplicates are collapsed; both are logged as
// warnings. A missing, malformed, or effectively empty artifact falls back to
// the built-in list — unless strict is set, in which case Load returns an
// error and startup must abort.
func Load(logger *slog.Logger, strict bool) (*Registry, LoadStats, error) {
	return loadFromBytes(bundledArtifact, logger, strict)
}

func loadFromBytes(raw []byte, logger *slog.Logger, strict bool) (*Registry, LoadStats, error) {
	var stats LoadStats

	var parsed bundle
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fallbackOrFatal(logger, strict, &stats, fmt.Errorf("parse scope bundle: %w", err))
	}
	if len(parsed.Scopes) == 0 {
		return fallbackOrFatal(logger, strict, &stats, fmt.Errorf("scope bundle has no scope entries"))
	}
	stats.BundleVersion = parsed.Version

	ids := make([]domain.ScopeID, 0, len(parsed.Scopes))
	set := make(map[domain.ScopeID]struct{}, len(parsed.Scopes))
	for i, entry := range parsed.Scopes {
		id := domain.ScopeID(entry.ID)
		if !id.IsValid() {
			stats.Dropped++
			logger.Warn("dropping invalid scope bundle entry", "index", i)
			continue
		}
		if _, dup := set[id]; dup {
			stats.Deduplicated++
			logger.Warn("deduplicating scope bundle entry", "scope", id.String())
			continue
		}
		set[id] = struct{}{}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return fallbackOrFatal(logger, strict, &stats, fmt.Errorf("scope bundle has zero valid entries"))
	}

	logger.Info("scope registry loaded",
		"bundle_version", stats.BundleVersion,
		"scope_count", len(ids),
		"dropped", stats.Dropped,
		"deduplicated", stats.Deduplicated,
	)
	return &Registry{ids: ids, set: set}, stats, nil
}

func fallbackOrFatal(logger *slog.Logger, strict bool, stats *LoadStats, cause error) (*Registry, LoadStats, error) {
	if strict {
		return nil, *stats, fmt.Errorf("scope bundle required but unusable: %w", cause)
	}
	logger.Warn("scope bundle unusable, using built-in fallback list", "error", cause.Error())
	stats.UsedFallback = true

	set := make(map[domain.ScopeID]struct{}, len(fallbackScopeIDs))
	ids := make([]domain.ScopeID, len(fallbackScopeIDs))
	copy(ids, fallbackScopeIDs)
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &Registry{ids: ids, set: set}, *stats, nil
}

// Contains reports whether the identifier is a registered scope.
func (r *Registry) Contains(id string) bool {
	_, ok := r.set[domain.ScopeID(id)]
	return ok
}

// IDs returns the registered scope identifiers in bundle order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.ids))
	for i, id := range r.ids {
		out[i] = id.String()
	}
	return out
}

// Len returns the number of registered scopes.
func (r *Registry) Len() int { return len(r.ids) }
