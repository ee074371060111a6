package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "single element",
			input:    []string{"analytics"},
			expected: []string{"analytics"},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  analytics  ", "marketing  ", "  functional"},
			expected: []string{"analytics", "marketing", "functional"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"analytics", "marketing", "analytics", "functional", "marketing"},
			expected: []string{"analytics", "marketing", "functional"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"analytics", "", "  ", "marketing"},
			expected: []string{"analytics", "marketing"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"Mozilla/5.0", "Mozilla/5.0"},
		{"  Mozilla/5.0  ", "Mozilla/5.0"},
		{"Mozilla/5.0 \t (X11;\n Linux)", "Mozilla/5.0 (X11; Linux)"},
		{"a  b   c", "a b c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CollapseWhitespace(tt.input))
	}
}
