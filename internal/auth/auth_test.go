package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEXUS-UST/nexus-forum/internal/auth"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := auth.GenerateToken(secret, 42, "alice")
	require.NoError(t, err)

	claims, err := auth.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	// 7-day expiry, with a little slack for test runtime
	ttl := time.Until(claims.ExpiresAt.Time)
	assert.InDelta(t, auth.TokenTTL.Seconds(), ttl.Seconds(), 60)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken([]byte("one"), 1, "bob")
	require.NoError(t, err)

	_, err = auth.ParseToken([]byte("two"), token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := auth.ParseToken([]byte("secret"), "not-a-token")
	assert.Error(t, err)
}
