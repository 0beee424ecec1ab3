package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	userID, ok := decoded.Get("user_id")
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	tokenType, ok := decoded.Get("type")
	require.True(t, ok)
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	token, _, err := NewJWTService("secret-a", time.Hour).GenerateAccessToken("user-1", "owner@example.com")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", time.Hour).JWTAuth().Decode(token)
	assert.Error(t, err)
}
