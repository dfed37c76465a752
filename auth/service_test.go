package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/linkup-go/config"
)

func testService() *Service {
	return NewService(nil, config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	s := testService()

	tokens, err := s.generateTokens(42)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)

	claims, err := s.validateToken(tokens.AccessToken, tokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "linkup", claims.Issuer)

	claims, err = s.validateToken(tokens.RefreshToken, tokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
}

func TestValidateTokenRejectsWrongType(t *testing.T) {
	s := testService()

	tokens, err := s.generateTokens(1)
	require.NoError(t, err)

	_, err = s.validateToken(tokens.RefreshToken, tokenTypeAccess)
	assert.Error(t, err)

	_, err = s.validateToken(tokens.AccessToken, tokenTypeRefresh)
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := testService()
	tokens, err := s.generateTokens(1)
	require.NoError(t, err)

	other := NewService(nil, config.AuthConfig{
		JWTSecret:            "different-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}, zap.NewNop())

	_, err = other.validateToken(tokens.AccessToken, tokenTypeAccess)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := NewService(nil, config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  -1 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}, zap.NewNop())

	tokens, err := s.generateTokens(1)
	require.NoError(t, err)

	_, err = s.validateToken(tokens.AccessToken, tokenTypeAccess)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	s := testService()
	tokens, err := s.generateTokens(7)
	require.NoError(t, err)

	t.Run("issues a new access token", func(t *testing.T) {
		refreshed, err := s.RefreshToken(t.Context(), tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)

		claims, err := s.validateToken(refreshed.AccessToken, tokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
	})

	t.Run("rejects an access token", func(t *testing.T) {
		_, err := s.RefreshToken(t.Context(), tokens.AccessToken)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := s.RefreshToken(t.Context(), "not-a-token")
		assert.Error(t, err)
	})
}
