// Package identity exchanges bearer credentials for a verified user identity
// against the external identity provider. Two modes exist: local HS256 JWT
// verification when the provider's signing secret is configured, and a remote
// lookup against the provider's user endpoint otherwise.
package identity

import (
	"context"

	dErrors "consentd/pkg/domain-errors"
)

// Identity is the verified caller.
type Identity struct {
	UserID string
}

// Verifier exchanges a bearer token for a verified identity.
// Implementations return CodeUnauthorized for bad credentials and
// CodeUnavailable when the provider cannot be reached.
type Verifier interface {
	Verify(ctx context.Context, bearerToken string) (Identity, error)
}

func errUnauthorized(msg string) error {
	return dErrors.New(dErrors.CodeUnauthorized, msg)
}
