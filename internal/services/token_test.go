package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", "admin", DefaultTokenTTL)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID, "expected a jti claim")
}

func TestTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", "user", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecret(t *testing.T) {
	issued, err := NewTokenService("secret-a").Issue("user-123", "user", DefaultTokenTTL)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(issued)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret")

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestResetTokenShortLived(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.Issue("user-123", "user", ResetTokenTTL)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, time.Hour, lifetime)
}
