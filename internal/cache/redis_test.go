package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}

// Test helper: get Redis URL from env or default
func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

func TestRedisOptions(t *testing.T) {
	opts := redisOptions("redis://:urlpass@cache.internal:6380/2", "", 0)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "urlpass", opts.Password, "URL credentials kept when none configured")
	assert.Equal(t, 2, opts.DB)

	opts = redisOptions("redis://cache.internal:6380", "secret", 5)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 5, opts.DB)

	opts = redisOptions("redis://:urlpass@cache.internal:6380/2", "secret", 7)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 7, opts.DB)

	opts = redisOptions("localhost:6379", "secret", 3)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	c, err := newRedisCache(RedisConfig{
		URL:       getRedisURL(),
		KeyPrefix: "test-citemind",
		TTL:       time.Minute,
	})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "kpi:citations", []byte(`{"metric":"citations"}`)))

	value, ok, err := c.Get(ctx, "kpi:citations")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"metric":"citations"}`, string(value))

	ttl := c.client.TTL(ctx, "test-citemind:kpi:citations").Val()
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, "kpi:citations"))
	_, ok, err = c.Get(ctx, "kpi:citations")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Defaults(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	c, err := newRedisCache(RedisConfig{URL: getRedisURL()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, "citemind", c.config.KeyPrefix)
	assert.Equal(t, time.Minute, c.config.TTL)
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := newRedisCache(RedisConfig{URL: "invalid-redis-url:9999"})
	assert.Error(t, err)
}
