package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_SignAndParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	tok, err := m.SignAccessToken("user-1", "HOST", "login")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := m.ParseAndValidate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "HOST", claims.Role)
	assert.Equal(t, "login", claims.TokenType)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	m := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	tok, err := m.SignAccessToken("user-1", "HOST", "login")
	require.NoError(t, err)

	_, err = other.ParseAndValidate(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	tok, err := m.SignAccessToken("user-1", "HOST", "login")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAndValidate(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHashPassword_Policy(t *testing.T) {
	_, err := HashPassword("short", nil)
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	hash, err := HashPassword("long-enough", nil)
	require.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "long-enough"))
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}

func TestGenerateAPIKey(t *testing.T) {
	a, err := GenerateAPIKey(32)
	require.NoError(t, err)
	b, err := GenerateAPIKey(32)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	for _, r := range a {
		assert.Contains(t, apiKeyAlphabet, string(r))
	}
}

func TestGenerateAPIKey_AlwaysFullLength(t *testing.T) {
	// Rejected bytes must be replaced, not skipped: keys never come up short.
	for i := 0; i < 200; i++ {
		key, err := GenerateAPIKey(32)
		require.NoError(t, err)
		require.Len(t, key, 32)
		for _, r := range key {
			require.Contains(t, apiKeyAlphabet, string(r))
		}
	}
}
