package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Mode)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, StoreMongo, cfg.Store)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 120*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 3, cfg.Gemini.MaxRetries)
	assert.Equal(t, time.Second, cfg.Gemini.Backoff)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("GEMINI_TIMEOUT", "30s")
	t.Setenv("GEMINI_BACKOFF", "250ms")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Gemini.Backoff)
	assert.Equal(t, "dev-secret", cfg.Auth.Secret)
}

func TestValidate(t *testing.T) {
	t.Run("unknown store", func(t *testing.T) {
		cfg := &Config{Mode: "development", Store: "redis"}
		assert.Error(t, cfg.Validate())
	})

	t.Run("production requires a key", func(t *testing.T) {
		cfg := &Config{Mode: "production", Store: StoreMemory}
		assert.Error(t, cfg.Validate())

		cfg.Auth.Secret = "s"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := &Config{Mode: "staging", Store: StoreMemory}
		assert.Error(t, cfg.Validate())
	})
}
