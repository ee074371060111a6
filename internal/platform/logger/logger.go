// Package logger builds the process-wide structured logger. All log lines are
// JSON and pass through a PII redaction layer: attributes whose keys name
// personal data are masked before they reach the sink, so downstream log
// storage never sees raw identifiers.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// RedactedValue replaces the value of any PII-named attribute.
const RedactedValue = "[REDACTED]"

// piiKeys lists attribute keys that must never be logged raw, lowercased.
// Pseudonymous hashes (ip_hash, ua_hash, user_hash) are fine; the raw
// counterparts are not.
var piiKeys = map[string]struct{}{
	"user_id":         {},
	"userid":          {},
	"email":           {},
	"name":            {},
	"full_name":       {},
	"phone":           {},
	"address":         {},
	"ip":              {},
	"ip_address":      {},
	"user_agent":      {},
	"authorization":   {},
	"bearer_token":    {},
	"cycle_phase":     {},
	"lmp_date":        {},
	"symptoms":        {},
	"health_data":     {},
	"medical_history": {},
}

// New returns a JSON slog.Logger writing to stdout at the given level, with
// PII redaction applied to every attribute.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	})
	return slog.New(handler)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactAttr masks PII-named attributes. Group values are walked so nested
// attributes are covered too.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, nested := range attrs {
			redacted[i] = redactAttr(nil, nested)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}
	if shouldRedactKey(a.Key) {
		return slog.String(a.Key, RedactedValue)
	}
	return a
}

func shouldRedactKey(key string) bool {
	_, ok := piiKeys[strings.ToLower(key)]
	return ok
}
