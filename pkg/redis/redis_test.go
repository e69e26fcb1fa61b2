package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Addr(t *testing.T) {
	cfg := &Config{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", cfg.Addr())
}

func TestNewClient_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Port = port

	c, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.HealthCheck(ctx))

	ok, err := c.SetNX(ctx, "k", "v1", time.Minute).Result()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "k", "v2", time.Minute).Result()
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := c.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v1", got)

	require.NoError(t, c.Del(ctx, "k").Err())
	_, err = c.Get(ctx, "k").Result()
	assert.ErrorIs(t, err, goredis.Nil)
}

func TestNewClient_Unreachable(t *testing.T) {
	cfg := &Config{
		Host:          "127.0.0.1",
		Port:          1,
		MaxRetries:    1,
		RetryInterval: 10 * time.Millisecond,
		DialTimeout:   100 * time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewClient(ctx, cfg)
	assert.Error(t, err)
}

func TestNewFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "a", "1", 0).Err())
	assert.True(t, mr.Exists("a"))
	assert.NotNil(t, c.Client())
}
