package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("unit-test-secret")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(secret, 42, "staff", TokenAccess, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, TokenAccess, token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "staff", claims.Role)
}

func TestParseToken_Rejects(t *testing.T) {
	token, err := GenerateToken(secret, 1, "admin", "refresh", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, TokenAccess, token)
	assert.Error(t, err)

	_, err = ParseToken([]byte("other"), "refresh", token)
	assert.Error(t, err)

	expired, err := GenerateToken(secret, 1, "admin", TokenAccess, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, TokenAccess, expired)
	assert.Error(t, err)
}

func TestShouldRotateToken(t *testing.T) {
	token, _ := GenerateToken(secret, 1, "admin", TokenAccess, 10*time.Second)
	claims, err := ParseToken(secret, TokenAccess, token)
	require.NoError(t, err)
	assert.True(t, ShouldRotateToken(claims, 30*time.Second))
	assert.False(t, ShouldRotateToken(claims, time.Second))
}
