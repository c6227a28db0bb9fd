package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "maintenance-system/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, time.Hour*24, zap.NewNop())

	access, refresh, err := svc.GenerateTokens(42, "MANAGER")
	require.NoError(t, err, "генерация токенов не должна падать")
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err, "свой access-токен должен проходить проверку")
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken, "refresh-токен должен быть помечен")
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour, time.Hour, zap.NewNop())
	verifier := NewJWTService("secret-b", time.Hour, time.Hour, zap.NewNop())

	access, _, err := issuer.GenerateTokens(1, "USER")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "чужая подпись должна отклоняться")
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens(1, "USER")
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.Error(t, err, "просроченный токен должен отклоняться")
}

func TestJWTService_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, time.Hour, zap.NewNop())

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
