// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved. Used to
// canonicalize scope lists before registry validation.
//
// Example:
//
//	DedupeAndTrim([]string{"  analytics ", "marketing", "analytics", ""})
//	// Returns: []string{"analytics", "marketing"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// CollapseWhitespace replaces every run of whitespace with a single space and
// trims the ends. User-agent strings pass through this before hashing so
// incidental formatting differences don't fragment the hash space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
