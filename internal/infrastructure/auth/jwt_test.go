package auth

import (
	"testing"
	"time"

	"loan-management/internal/config"
	"loan-management/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(config.AuthConfig{JWTSecret: "testsecret", TokenTTL: time.Hour, Issuer: "loan-management"})
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager(config.AuthConfig{})
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, exp, err := m.Issue(&user.User{ID: 42, Name: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(time.Hour), exp)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "Ann", claims.Name)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.Equal(t, "loan-management", claims.Issuer)
}

func TestParse_Rejects(t *testing.T) {
	m := newTestManager(t)

	t.Run("Expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := m.Issue(&user.User{ID: 1})
		require.NoError(t, err)
		m.now = time.Now

		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other, err := NewJWTManager(config.AuthConfig{JWTSecret: "othersecret"})
		require.NoError(t, err)
		token, _, err := other.Issue(&user.User{ID: 1})
		require.NoError(t, err)

		_, err = m.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Parse(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
