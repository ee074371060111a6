package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoarsenIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 zeroes last octet", "203.0.113.74", "203.0.113.0"},
		{"ipv4 already coarse", "10.1.2.0", "10.1.2.0"},
		{"ipv6 keeps first four groups", "2001:db8:abcd:12:3456:7890:abcd:ef01", "2001:db8:abcd:12::"},
		{"ipv6 loopback", "::1", "::"},
		{"unparseable passes through", "unknown", "unknown"},
		{"empty stays empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CoarsenIP(tc.input))
		})
	}
}

func TestHashStableWithinConfiguration(t *testing.T) {
	h := NewHasher("pepper-1")
	first := h.HashIP("203.0.113.74")
	second := h.HashIP("203.0.113.74")
	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
}

func TestHashDiffersAcrossPeppers(t *testing.T) {
	a := NewHasher("pepper-a").Hash("203.0.113.0")
	b := NewHasher("pepper-b").Hash("203.0.113.0")
	unkeyed := NewHasher("").Hash("203.0.113.0")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, unkeyed)
}

func TestSameSubnetSameHash(t *testing.T) {
	h := NewHasher("pepper")
	assert.Equal(t, h.HashIP("203.0.113.74"), h.HashIP("203.0.113.201"))
	assert.NotEqual(t, h.HashIP("203.0.113.74"), h.HashIP("203.0.114.74"))
}

func TestUserAgentNormalizationBeforeHashing(t *testing.T) {
	h := NewHasher("pepper")
	a := h.HashUserAgent("Mozilla/5.0  (X11; Linux)")
	b := h.HashUserAgent(" Mozilla/5.0 (X11;\tLinux) ")
	assert.Equal(t, a, b)
}

func TestEmptyInputHashesToEmpty(t *testing.T) {
	keyed := NewHasher("pepper")
	unkeyed := NewHasher("")
	assert.Empty(t, keyed.Hash(""))
	assert.Empty(t, unkeyed.Hash(""))
	assert.Empty(t, keyed.HashIP(""))
	assert.Empty(t, keyed.HashUserAgent("   "))
}

func TestVersionTag(t *testing.T) {
	assert.Equal(t, HashVersionHMAC, NewHasher("pepper").Version())
	assert.Equal(t, HashVersionSHA256, NewHasher("").Version())
}
