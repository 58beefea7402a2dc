package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	ConfigureJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken("user-1", "Customer", "rest-1", "table-1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Customer", claims.Role)
	assert.Equal(t, "rest-1", claims.RestaurantID)
	assert.Equal(t, "table-1", claims.TableID)
}

func TestParseToken_Invalid(t *testing.T) {
	ConfigureJWT("unit-test-secret", time.Hour)

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)

	token, err := GenerateToken("user-1", "Staff", "rest-1", "")
	require.NoError(t, err)
	ConfigureJWT("another-secret", time.Hour)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Blacklisted(t *testing.T) {
	ConfigureJWT("unit-test-secret", time.Hour)

	token, err := GenerateToken("user-2", "Staff", "rest-1", "")
	require.NoError(t, err)

	BlacklistToken(token, time.Now().Add(time.Hour))
	_, err = ParseToken(token)
	assert.ErrorContains(t, err, "revoked")
}

func TestCleanupBlacklist(t *testing.T) {
	BlacklistToken("expired-token", time.Now().Add(-time.Minute))
	BlacklistToken("live-token", time.Now().Add(time.Hour))

	removed := CleanupBlacklist(time.Now())
	assert.GreaterOrEqual(t, removed, 1)
	assert.False(t, IsTokenBlacklisted("expired-token"))
	assert.True(t, IsTokenBlacklisted("live-token"))
}
