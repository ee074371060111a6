package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "consentd/pkg/domain-errors"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifierAcceptsValidToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	id, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID)
}

func TestJWTVerifierRejectsExpiredToken(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTVerifierRejectsWrongSecret(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestJWTVerifierRejectsMissingSubject(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}

func TestJWTVerifierRejectsGarbage(t *testing.T) {
	v := NewJWTVerifier(testSecret)

	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
}
