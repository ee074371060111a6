package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicyVersion_Valid(t *testing.T) {
	tests := []struct {
		input string
		major int
		minor int
	}{
		{"v1", 1, 0},
		{"v1.0", 1, 0},
		{"v2.5", 2, 5},
		{"v10", 10, 0},
		{"v0.0", 0, 0},
		{"v12.34", 12, 34},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result := ParsePolicyVersion(tc.input)
			assert.True(t, result.Valid)
			assert.Equal(t, tc.major, result.Major)
			assert.Equal(t, tc.minor, result.Minor)
			assert.Empty(t, result.Err)
		})
	}
}

func TestParsePolicyVersion_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"v",
		"1.0",
		"version1",
		"v1.0.1",
		"v1.",
		"V1",
		"v-1",
		"v1.x",
		" v1",
		"v1 ",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			result := ParsePolicyVersion(input)
			assert.False(t, result.Valid)
			assert.NotEmpty(t, result.Err, "error must describe the rejected input")
			assert.Contains(t, result.Err, input)
		})
	}
}

func TestIsValidPolicyVersion(t *testing.T) {
	assert.True(t, IsValidPolicyVersion("v3.1"))
	assert.False(t, IsValidPolicyVersion("3.1"))
}

func TestScopeIDIsValid(t *testing.T) {
	valid := []ScopeID{"analytics", "health_insights", "a", "s1", "crash_reporting"}
	for _, s := range valid {
		assert.True(t, s.IsValid(), s)
	}

	invalid := []ScopeID{"", "Analytics", "1analytics", "_x", "has space", "trailing-", "über"}
	for _, s := range invalid {
		assert.False(t, s.IsValid(), s)
	}

	// 50 chars is the cap: 1 leading letter + 49 tail characters.
	long := ScopeID("a" + "bcdefghij_bcdefghij_bcdefghij_bcdefghij_bcdefghij")
	assert.Len(t, long.String(), 50)
	assert.True(t, long.IsValid())
	assert.False(t, (long + "x").IsValid())
}
