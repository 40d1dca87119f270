package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pravado/citemind/internal/utils"
	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis cache configuration
type RedisConfig struct {
	URL       string        // Redis URL (e.g., redis://localhost:6379)
	Password  string        // Optional password
	DB        int           // Database number (default: 0)
	KeyPrefix string        // Key prefix (default: "citemind")
	TTL       time.Duration // Entry lifetime
}

// RedisCache implements Cache on a shared Redis instance so several
// dashboard backends can reuse one another's snapshots
type RedisCache struct {
	client *redis.Client
	config RedisConfig
}

// redisOptions parses a redis:// URL or treats url as a plain address.
// A non-empty password and a non-zero DB override what the URL carries.
func redisOptions(url, password string, db int) *redis.Options {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fallback to simple options
		return &redis.Options{
			Addr:     url,
			Password: password,
			DB:       db,
		}
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return opts
}

// newRedisCache creates a new Redis cache and verifies the connection
func newRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(redisOptions(cfg.URL, cfg.Password, cfg.DB))

	ctx, cancel := context.WithTimeout(context.Background(), utils.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = utils.DefaultKeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = utils.DefaultCacheTTL
	}

	return &RedisCache{
		client: client,
		config: cfg,
	}, nil
}

// key namespaces a cache key
func (c *RedisCache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.config.KeyPrefix, key)
}

// Get retrieves a value
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value with the configured TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	return c.client.Close()
}
