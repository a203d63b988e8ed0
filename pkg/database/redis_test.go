package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configFor(t *testing.T, mr *miniredis.Miniredis) RedisConfig {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	cfg.Port = port
	return cfg
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultRedisConfig().Addr())
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), configFor(t, mr))
	require.NoError(t, err)
	defer client.Close()

	check := RedisChecker(client)
	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.Error(t, check(context.Background()))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := configFor(t, mr)
	cfg.DialTimeout = 200 * time.Millisecond
	mr.Close()

	_, err := NewRedisClient(context.Background(), cfg)
	assert.Error(t, err)
}
