// Package cors builds CORS response headers for the edge endpoints.
package cors

import (
	"net/http"
	"strings"
)

const (
	defaultMethods = "GET, POST, OPTIONS"
	defaultHeaders = "Content-Type, Authorization, X-Request-ID"
)

// Options controls allowed-origin resolution.
type Options struct {
	// AllowList holds the origins permitted to call the endpoint. Ignored
	// when AllowAll is set.
	AllowList []string
	// AllowAll responds with a wildcard origin.
	AllowAll bool
}

// resolveAllowedOrigin picks the Access-Control-Allow-Origin value: wildcard
// when everything is allowed or no allow list is configured, the request
// origin when it is on the list, otherwise the first configured origin.
func resolveAllowedOrigin(originHeader string, opts Options) string {
	if opts.AllowAll {
		return "*"
	}
	if len(opts.AllowList) == 0 {
		return "*"
	}

	normalized := make([]string, 0, len(opts.AllowList))
	for _, origin := range opts.AllowList {
		normalized = append(normalized, strings.TrimSpace(origin))
	}

	if originHeader != "" {
		origin := strings.TrimSpace(originHeader)
		for _, allowed := range normalized {
			if allowed == origin {
				return origin
			}
		}
	}
	return normalized[0]
}

// BuildHeaders returns the CORS headers for a request origin.
func BuildHeaders(originHeader string, opts Options) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  resolveAllowedOrigin(originHeader, opts),
		"Access-Control-Allow-Methods": defaultMethods,
		"Access-Control-Allow-Headers": defaultHeaders,
	}
}

// Apply writes the CORS headers for a request origin onto a response.
func Apply(w http.ResponseWriter, originHeader string, opts Options) {
	for key, value := range BuildHeaders(originHeader, opts) {
		w.Header().Set(key, value)
	}
}
