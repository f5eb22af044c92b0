package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := mgr.GenerateToken(userID, 42, "user@example.com")
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, 42, claims.ClienteID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	mgr, _ := NewJWTManager("test-secret", time.Hour)
	token, _ := mgr.GenerateToken(uuid.New(), 1, "user@example.com")

	_, err := mgr.ValidateToken(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, _ := NewJWTManager("other-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = mgr.ValidateToken("not.a.jwt.at.all")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	mgr, _ := NewJWTManager("test-secret", -time.Minute)
	token, _ := mgr.GenerateToken(uuid.New(), 1, "user@example.com")

	_, err := mgr.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTRequiresSecret(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSecret)
}
