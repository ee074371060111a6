package scopes

import (
	"fmt"

	pkgstrings "consentd/pkg/platform/strings"
)

// Echo bounds for rejected scope values, so error responses cannot amplify
// or exfiltrate arbitrarily large payloads.
const (
	maxEchoedInvalid    = 10
	maxEchoedValueChars = 200
)

// Rejection reasons surfaced to clients on 400 responses.
const (
	ReasonInvalidScopesType      = "invalid_scopes_type"
	ReasonInvalidScopesValueType = "invalid_scopes_value_type"
	ReasonMissingScopes          = "missing_scopes"
	ReasonInvalidScopes          = "invalid_scopes"
)

// RejectError describes why a scopes payload was rejected. InvalidValues and
// InvalidCount are only set for ReasonInvalidScopes.
type RejectError struct {
	Reason        string
	Message       string
	InvalidValues []string
	InvalidCount  int
}

func (e *RejectError) Error() string { return e.Message }

// Normalize reduces a raw scopes payload — either an ordered list or a map of
// boolean flags — to the pre-validation entry list. List payloads pass through
// unchanged; map payloads contribute the keys whose value is true. A map with
// any non-boolean value, or any other payload shape, rejects the whole
// request.
func Normalize(raw any) ([]any, *RejectError) {
	switch v := raw.(type) {
	case []any:
		if len(v) == 0 {
			return nil, &RejectError{Reason: ReasonMissingScopes, Message: "scopes must be non-empty"}
		}
		return v, nil
	case map[string]any:
		entries := make([]any, 0, len(v))
		for key, value := range v {
			granted, ok := value.(bool)
			if !ok {
				return nil, &RejectError{
					Reason:  ReasonInvalidScopesValueType,
					Message: "scopes map values must all be booleans",
				}
			}
			if granted {
				entries = append(entries, key)
			}
		}
		if len(entries) == 0 {
			return nil, &RejectError{Reason: ReasonMissingScopes, Message: "scopes must be non-empty"}
		}
		return entries, nil
	default:
		return nil, &RejectError{
			Reason:  ReasonInvalidScopesType,
			Message: "scopes must be an array of scope ids or a map of boolean flags",
		}
	}
}

// Resolve checks normalized entries against the registry. Entries that are
// not strings, or are strings the registry does not know, reject the whole
// request — no partial acceptance. Accepted entries are trimmed and
// deduplicated, so list and map submissions of the same grant set produce the
// same canonical result regardless of order.
func (r *Registry) Resolve(entries []any) ([]string, *RejectError) {
	candidates := make([]string, 0, len(entries))
	var invalid []any
	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			invalid = append(invalid, entry)
			continue
		}
		candidates = append(candidates, s)
	}

	valid := make([]string, 0, len(candidates))
	for _, s := range pkgstrings.DedupeAndTrim(candidates) {
		if r.Contains(s) {
			valid = append(valid, s)
			continue
		}
		invalid = append(invalid, s)
	}

	if len(invalid) > 0 {
		return nil, &RejectError{
			Reason:        ReasonInvalidScopes,
			Message:       "request contains unrecognized scopes",
			InvalidValues: echoValues(invalid),
			InvalidCount:  len(invalid),
		}
	}
	if len(valid) == 0 {
		return nil, &RejectError{Reason: ReasonMissingScopes, Message: "scopes must be non-empty"}
	}
	return valid, nil
}

// echoValues stringifies rejected values with a hard cap on count and length.
func echoValues(values []any) []string {
	n := len(values)
	if n > maxEchoedInvalid {
		n = maxEchoedInvalid
	}
	out := make([]string, 0, n)
	for _, v := range values[:n] {
		s := fmt.Sprintf("%v", v)
		if len(s) > maxEchoedValueChars {
			s = s[:maxEchoedValueChars]
		}
		out = append(out, s)
	}
	return out
}
