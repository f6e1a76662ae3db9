package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)
	return m
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newManager(t)

	issued, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Verify(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, issued.ID, claims.TokenID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := newManager(t)
	a, err := m.Issue("u")
	require.NoError(t, err)
	b, err := m.Issue("u")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestJWTManager_Expired(t *testing.T) {
	m := newManager(t)
	start := time.Now()
	m.now = func() time.Time { return start }
	issued, err := m.Issue("u")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = m.Verify(issued.Token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := newManager(t)
	other, err := NewJWTManager("other-secret", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("u")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer: issuer, Subject: "u", ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer: issuer, ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":      "not.a.jwt",
		"wrong secret": foreign.Token,
		"alg none":     unsigned,
		"missing sub":  noSubject,
		"empty":        "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.Verify(raw)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestNewJWTManager_Validates(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)
	_, err = NewJWTManager("s", 0)
	assert.Error(t, err)
}
