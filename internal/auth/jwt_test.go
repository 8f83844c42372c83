package auth

import (
	"testing"

	"github.com/gamefit-dev/gamefit/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:         "gamefit_test_secret_1234567890",
		SessionTTLMinutes: 15,
		ConfirmTTLSeconds: 3600,
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager(testConfig())

	token, err := manager.GenerateSessionToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := manager.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestConfirmationTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager(testConfig())

	token, err := manager.GenerateConfirmationToken("user@example.com")
	require.NoError(t, err)

	email, err := manager.VerifyConfirmationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestPurposesAreNotInterchangeable(t *testing.T) {
	manager := NewTokenManager(testConfig())

	sessionToken, err := manager.GenerateSessionToken(7)
	require.NoError(t, err)
	confirmToken, err := manager.GenerateConfirmationToken("user@example.com")
	require.NoError(t, err)

	_, err = manager.VerifyConfirmationToken(sessionToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = manager.VerifySessionToken(confirmToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenReported(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmTTLSeconds = -1
	manager := NewTokenManager(cfg)

	token, err := manager.GenerateConfirmationToken("user@example.com")
	require.NoError(t, err)

	_, err = manager.VerifyConfirmationToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageTokenInvalid(t *testing.T) {
	manager := NewTokenManager(testConfig())

	_, err := manager.VerifySessionToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestWrongSecretRejected(t *testing.T) {
	manager := NewTokenManager(testConfig())

	other := testConfig()
	other.JWTSecret = "a_completely_different_secret"
	otherManager := NewTokenManager(other)

	token, err := manager.GenerateSessionToken(1)
	require.NoError(t, err)

	_, err = otherManager.VerifySessionToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
