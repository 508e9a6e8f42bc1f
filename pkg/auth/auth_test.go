package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16"

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, 15*time.Minute, time.Hour)

	raw, err := m.IssueAccessToken("64f0c2a1b2c3d4e5f6a7b8c9", "professor")
	require.NoError(t, err)

	claims, err := m.ParseAccessToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2a1b2c3d4e5f6a7b8c9", claims.Subject)
	assert.Equal(t, "professor", claims.Role)
}

func TestAccessToken_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	raw, err := m.IssueAccessToken("u1", "student")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	raw, err := NewTokenManager(testSecret, time.Minute, time.Hour).IssueAccessToken("u1", "student")
	require.NoError(t, err)

	_, err = NewTokenManager("another-secret-value", time.Minute, time.Hour).ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Role:             "professor",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
	})
	raw, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Minute, time.Hour).ParseAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessToken_Garbage(t *testing.T) {
	_, err := NewTokenManager(testSecret, time.Minute, time.Hour).ParseAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshToken(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, 2*time.Hour)

	a, err := m.IssueRefreshToken()
	require.NoError(t, err)
	b, err := m.IssueRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a.Raw, 64)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, HashRefreshToken(a.Raw), a.Hash)
	assert.NotEqual(t, a.Raw, a.Hash)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), a.ExpiresAt, time.Minute)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: "student"})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "student", p.Role)
}
