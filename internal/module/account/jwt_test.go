package account

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "smartblog-test",
	})

	user := &User{ID: uuid.New(), Username: "writer", Email: "writer@example.com"}

	token, expiresAt, err := manager.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, "smartblog-test", claims.Issuer)
}

func TestJWTManager_ValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTManager(&JWTConfig{Secret: "secret-a", AccessTokenExpiry: time.Hour})
	verifier := NewJWTManager(&JWTConfig{Secret: "secret-b", AccessTokenExpiry: time.Hour})

	token, _, err := issuer.GenerateAccessToken(&User{ID: uuid.New(), Username: "writer"})
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateRejectsExpired(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: -time.Minute,
	})

	// Manager defaults a non-positive expiry, so force one directly
	manager.config.AccessTokenExpiry = -time.Minute

	token, _, err := manager.GenerateAccessToken(&User{ID: uuid.New(), Username: "writer"})
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour})

	_, err := manager.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
