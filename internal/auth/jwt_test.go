package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "heartglow-test")
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "dana", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "dana", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "heartglow-test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a", "heartglow-test")
	other := NewJWTService("secret-b", "heartglow-test")

	token, err := svc.GenerateToken(uuid.New(), "dana", false)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "heartglow-test")
	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
