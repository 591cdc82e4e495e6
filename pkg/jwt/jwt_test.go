package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/knyharnia/bookstore/pkg/errors"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken("uid-1", "alice", "alice@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := NewManager("secret-a", time.Hour, time.Hour)
	pair, err := m.GenerateToken("uid-1", "alice", "alice@example.com", "user")
	require.NoError(t, err)

	other := NewManager("secret-b", time.Hour, time.Hour)
	_, err = other.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute, time.Hour)
	pair, err := m.GenerateToken("uid-1", "alice", "alice@example.com", "user")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour, time.Hour)
	_, err := m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken("uid-1", "alice", "alice@example.com", "admin")
	require.NoError(t, err)

	newAccess, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
