package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("session-123", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "session-123", claims.SessionID)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("session-123", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("session-123", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "test-secret")
	assert.Error(t, err)
}
