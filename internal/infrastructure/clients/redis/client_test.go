package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campusmove/pkg/config"
	"github.com/zatekoja/campusmove/pkg/retry"
)

func redisConfig(t *testing.T, server *miniredis.Miniredis) *config.RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	return &config.RedisConfig{Enabled: true, Host: server.Host(), Port: port}
}

func TestClient_Ping(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewClient(context.Background(), redisConfig(t, server), retry.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Ping(context.Background()))

	server.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewClient_GivesUpWhenUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	cfg := redisConfig(t, server)
	server.Close()

	_, err := NewClient(context.Background(), cfg, retry.Config{
		MaxAttempts:   2,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 1,
	})
	assert.Error(t, err)
}
