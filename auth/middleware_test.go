package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/linkup-go/config"
)

func TestJWTMiddleware(t *testing.T) {
	cfg := &config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}
	s := NewService(nil, *cfg, zap.NewNop())

	var gotUserID int64
	var called bool
	handler := JWTMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("accepts a valid access token", func(t *testing.T) {
		called = false
		tokens, err := s.generateTokens(99)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/feed", nil)
		r.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(99), gotUserID)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		called = false
		r := httptest.NewRequest("GET", "/api/feed", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a malformed header", func(t *testing.T) {
		called = false
		r := httptest.NewRequest("GET", "/api/feed", nil)
		r.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		called = false
		tokens, err := s.generateTokens(99)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/feed", nil)
		r.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a forged token", func(t *testing.T) {
		called = false
		forger := NewService(nil, config.AuthConfig{
			JWTSecret:            "other-secret",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
		}, zap.NewNop())
		tokens, err := forger.generateTokens(99)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/feed", nil)
		r.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalJWTMiddleware(t *testing.T) {
	cfg := &config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
	}
	s := NewService(nil, *cfg, zap.NewNop())

	var gotUserID int64
	var gotOK bool
	handler := OptionalJWTMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, gotOK = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("sets the caller id for a valid access token", func(t *testing.T) {
		gotUserID, gotOK = 0, false
		tokens, err := s.generateTokens(42)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, gotOK)
		assert.Equal(t, int64(42), gotUserID)
	})

	t.Run("passes through anonymously without a header", func(t *testing.T) {
		gotUserID, gotOK = 0, false
		r := httptest.NewRequest("GET", "/api/posts", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, gotOK)
		assert.Zero(t, gotUserID)
	})

	t.Run("passes through anonymously on an invalid token", func(t *testing.T) {
		gotUserID, gotOK = 0, false
		r := httptest.NewRequest("GET", "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, gotOK)
	})

	t.Run("ignores a refresh token", func(t *testing.T) {
		gotUserID, gotOK = 0, false
		tokens, err := s.generateTokens(42)
		require.NoError(t, err)

		r := httptest.NewRequest("GET", "/api/posts", nil)
		r.Header.Set("Authorization", "Bearer "+tokens.RefreshToken)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, gotOK)
	})
}
