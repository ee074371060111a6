package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// policyVersionPattern accepts v{major} or v{major}.{minor}.
// Examples: "v1", "v1.0", "v2.5".
var policyVersionPattern = regexp.MustCompile(`^v(\d+)(?:\.(\d+))?$`)

// PolicyVersionResult is the outcome of parsing a consent policy version
// string. When Valid is false, Err holds a client-safe description that
// echoes the offending input.
type PolicyVersionResult struct {
	Valid bool
	Major int
	Minor int
	Err   string
}

// ParsePolicyVersion validates and parses a policy version string.
// Minor defaults to 0 when omitted. The function is total: any input,
// including the empty string, yields a result and never panics.
//
//	ParsePolicyVersion("v1.0") -> {Valid: true, Major: 1, Minor: 0}
//	ParsePolicyVersion("v2")   -> {Valid: true, Major: 2, Minor: 0}
//	ParsePolicyVersion("bad")  -> {Valid: false, Err: "invalid version format ..."}
func ParsePolicyVersion(version string) PolicyVersionResult {
	match := policyVersionPattern.FindStringSubmatch(version)
	if match == nil {
		return PolicyVersionResult{
			Valid: false,
			Err:   fmt.Sprintf("invalid version format: %q, expected v{major} or v{major}.{minor}", version),
		}
	}
	major, err := strconv.Atoi(match[1])
	if err != nil {
		// Digit runs longer than an int can hold.
		return PolicyVersionResult{
			Valid: false,
			Err:   fmt.Sprintf("invalid version format: %q, major out of range", version),
		}
	}
	minor := 0
	if match[2] != "" {
		minor, err = strconv.Atoi(match[2])
		if err != nil {
			return PolicyVersionResult{
				Valid: false,
				Err:   fmt.Sprintf("invalid version format: %q, minor out of range", version),
			}
		}
	}
	return PolicyVersionResult{Valid: true, Major: major, Minor: minor}
}

// IsValidPolicyVersion is the boolean form of ParsePolicyVersion.
func IsValidPolicyVersion(version string) bool {
	return policyVersionPattern.MatchString(version)
}
