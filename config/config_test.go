package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_USER", "linkup")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "linkup")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequired(t)
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "localhost", cfg.DB.Host)
		assert.Equal(t, 5432, cfg.DB.Port)
		assert.Equal(t, 10, cfg.DB.MaxSize)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
		assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenDuration)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, "./migrations", cfg.MigrationsPath)
		assert.False(t, cfg.Images.Configured())
	})

	t.Run("missing required variables are aggregated", func(t *testing.T) {
		setRequired(t)
		// t.Setenv registers the restore; Unsetenv then simulates absence.
		os.Unsetenv("DB_USER")
		os.Unsetenv("JWT_SECRET")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_USER")
		assert.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("overrides", func(t *testing.T) {
		setRequired(t)
		t.Setenv("DB_POOL_SIZE", "500")
		t.Setenv("PORT", "9090")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
		t.Setenv("EXPLORE_CACHE_TTL", "5m")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.DB.MaxSize, "pool size is clamped")
		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	})

	t.Run("invalid duration is an error", func(t *testing.T) {
		setRequired(t)
		t.Setenv("JWT_ACCESS_TOKEN_DURATION", "not-a-duration")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "JWT_ACCESS_TOKEN_DURATION")
	})

	t.Run("cloudinary credentials mark images configured", func(t *testing.T) {
		setRequired(t)
		t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
		t.Setenv("CLOUDINARY_API_KEY", "key")
		t.Setenv("CLOUDINARY_API_SECRET", "secret")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.Images.Configured())
		assert.Equal(t, "social-posts", cfg.Images.Folder)
	})
}

func TestClampPoolSize(t *testing.T) {
	assert.Equal(t, 5, clampPoolSize(1))
	assert.Equal(t, 50, clampPoolSize(50))
	assert.Equal(t, 100, clampPoolSize(900))
}
