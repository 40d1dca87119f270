// Package cache stores computed KPI snapshots between refresh cycles.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/pravado/citemind/internal/config"
	"github.com/pravado/citemind/internal/utils"
)

// Cache is a byte-oriented key/value store with per-entry expiry
type Cache interface {
	// Get returns the value and true on a hit, false on a miss or expired entry
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the cache's TTL
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Close releases background resources
	Close() error
}

// New creates a Cache based on configuration. Default is the in-memory cache.
func New(cfg config.CacheConfig) (Cache, error) {
	cacheType := utils.CacheType(strings.ToLower(cfg.Type))
	if cacheType == "" {
		cacheType = utils.CacheTypeMemory
	}

	switch cacheType {
	case utils.CacheTypeNone:
		return Nop{}, nil

	case utils.CacheTypeMemory:
		return NewMemoryCache(cfg.TTL), nil

	case utils.CacheTypeRedis:
		return newRedisCache(RedisConfig{
			URL:       cfg.URL,
			Password:  cfg.Password,
			DB:        cfg.DB,
			KeyPrefix: cfg.KeyPrefix,
			TTL:       cfg.TTL,
		})

	default:
		return nil, fmt.Errorf("unsupported cache type: %s (supported: none, memory, redis)", cacheType)
	}
}

// Nop is a Cache that never stores anything
type Nop struct{}

// Get always misses
func (Nop) Get(ctx context.Context, key string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value
func (Nop) Set(ctx context.Context, key string, value []byte) error { return nil }

// Delete is a no-op
func (Nop) Delete(ctx context.Context, key string) error { return nil }

// Close is a no-op
func (Nop) Close() error { return nil }
