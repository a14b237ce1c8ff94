package services

import (
	"testing"
	"time"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, accessTTL time.Duration) TokenService {
	t.Helper()
	svc, err := NewTokenService(
		accessTTL,
		24*time.Hour,
		"calldesk-test",
		"calldesk-api",
		false,
		"", "",
		"test-secret-key-with-enough-entropy-123",
	)
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(time.Hour, 24*time.Hour, "iss", "aud", false, "", "", "")
	assert.Error(t, err)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	access, refresh, err := svc.GenerateTokens(42, models.RoleOperator)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleOperator, claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.NotEmpty(t, claims.TokenID)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, claims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)
	other, err := NewTokenService(time.Hour, 24*time.Hour, "calldesk-test", "calldesk-api", false, "", "", "a-completely-different-secret-key-456")
	require.NoError(t, err)

	access, _, err := svc.GenerateTokens(1, models.RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute)

	access, _, err := svc.GenerateTokens(1, models.RoleOperator)
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	access, refresh, err := svc.GenerateTokens(7, models.RoleAdmin)
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.RefreshToken(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := svc.ValidateToken(newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	// Access tokens cannot be used as refresh tokens
	_, _, err = svc.RefreshToken(access)
	assert.Error(t, err)
}

func TestAccessTokenTTL(t *testing.T) {
	svc := newTestTokenService(t, 15*time.Minute)
	assert.Equal(t, 15*time.Minute, svc.AccessTokenTTL())
}
