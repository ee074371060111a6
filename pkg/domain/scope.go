package domain

import "regexp"

// ScopeID names a consent category a user may grant or deny (e.g. analytics).
type ScopeID string

// scopeIDPattern bounds scope identifiers: lowercase start, then lowercase
// letters, digits, or underscores, 50 characters total at most.
var scopeIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,49}$`)

// IsValid reports whether the identifier matches the scope-ID pattern.
func (s ScopeID) IsValid() bool {
	return scopeIDPattern.MatchString(string(s))
}

// String returns the string representation.
func (s ScopeID) String() string { return string(s) }
