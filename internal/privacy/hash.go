// Package privacy computes pseudonymous digests of client identifiers for
// metrics. Inputs are coarsened and normalized first so the hashes group
// traffic without allowing direct re-identification.
package privacy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net"

	pkgstrings "consentd/pkg/platform/strings"
)

// Hash mode tags recorded alongside metric events so downstream consumers
// know whether digests are comparable across deployments.
const (
	HashVersionHMAC   = "hmac_v1"
	HashVersionSHA256 = "sha256_v1"
)

// Hasher produces hex digests, keyed with a pepper when one is configured.
type Hasher struct {
	pepper []byte
}

// NewHasher builds a Hasher. An empty pepper selects unkeyed SHA-256.
func NewHasher(pepper string) *Hasher {
	if pepper == "" {
		return &Hasher{}
	}
	return &Hasher{pepper: []byte(pepper)}
}

// Version identifies the hash mode for metric tagging.
func (h *Hasher) Version() string {
	if len(h.pepper) > 0 {
		return HashVersionHMAC
	}
	return HashVersionSHA256
}

// Hash digests the input. Empty input yields an empty string, never a hash of
// the empty string.
func (h *Hasher) Hash(input string) string {
	if input == "" {
		return ""
	}
	if len(h.pepper) > 0 {
		mac := hmac.New(sha256.New, h.pepper)
		mac.Write([]byte(input))
		return hex.EncodeToString(mac.Sum(nil))
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// HashIP coarsens then digests a client IP.
func (h *Hasher) HashIP(ip string) string {
	return h.Hash(CoarsenIP(ip))
}

// HashUserAgent normalizes then digests a User-Agent string.
func (h *Hasher) HashUserAgent(ua string) string {
	return h.Hash(NormalizeUserAgent(ua))
}

// CoarsenIP reduces an IP to a network prefix before hashing: IPv4 loses its
// last octet (a /24), IPv6 keeps only its first four groups (a /64). This
// bounds re-identification risk while preserving coarse network grouping.
// Unparseable input passes through untouched.
func CoarsenIP(ip string) string {
	if ip == "" {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip
	}
	if v4 := parsed.To4(); v4 != nil {
		return v4.Mask(net.CIDRMask(24, 32)).String()
	}
	return parsed.Mask(net.CIDRMask(64, 128)).String()
}

// NormalizeUserAgent collapses whitespace runs so incidental formatting
// differences don't fragment the hash space.
func NormalizeUserAgent(ua string) string {
	return pkgstrings.CollapseWhitespace(ua)
}
