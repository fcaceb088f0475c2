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

	assert.Equal(t, SessionBackendFile, cfg.Session.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.LoadDelay)
	assert.Equal(t, DefaultLatency(), cfg.Latency)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.False(t, cfg.Redis.Enabled)
	assert.Empty(t, cfg.Seed.File)
}

func TestLoad_LatencyOverrides(t *testing.T) {
	t.Setenv("LATENCY_WRITE", "50ms")
	t.Setenv("LATENCY_LOGIN", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50*time.Millisecond, cfg.Latency.Write)
	assert.Equal(t, 700*time.Millisecond, cfg.Latency.Login)
}

func TestLoad_LatencyDisabled(t *testing.T) {
	t.Setenv("LATENCY_ENABLED", "false")
	t.Setenv("LATENCY_WRITE", "50ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, LatencyConfig{}, cfg.Latency)
}

func TestLoad_SessionBackend(t *testing.T) {
	t.Run("redis requires redis enabled", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", SessionBackendRedis)

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("redis with redis enabled", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", SessionBackendRedis)
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_PORT", "6380")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "localhost:6380", cfg.Redis.RedisAddr())
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("SESSION_BACKEND", "cookie")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestLoad_CORS(t *testing.T) {
	t.Run("defaults to the dev frontend", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultCORS(), cfg.CORS)
	})

	t.Run("origin list is trimmed", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://campusmove.app , ,http://localhost:5173")
		t.Setenv("CORS_MAX_AGE", "1h")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://campusmove.app", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, time.Hour, cfg.CORS.MaxAge)
	})
}
