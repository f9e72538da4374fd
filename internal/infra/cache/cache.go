package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"
	"golang.org/x/sync/singleflight"
)

// Cache is a key/value store with per-entry TTL. A zero TTL never expires.
type Cache interface {
	Get(ctx context.Context, key string) (any, bool)
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
	Delete(ctx context.Context, key string)
	GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error)
}

var _ Cache = (*RistrettoCache)(nil)

// RistrettoCache keeps values in process memory.
type RistrettoCache struct {
	store       *ristretto.Cache
	singleGroup singleflight.Group
}

type CacheConfig struct {
	MaxCost     int64
	NumCounters int64
	BufferItems int64
}

// DefaultConfig sizes the cache for a few thousand small entries.
func DefaultConfig() *CacheConfig {
	return &CacheConfig{
		MaxCost:     1 << 20,
		NumCounters: 1e4,
		BufferItems: 64,
	}
}

func New(config *CacheConfig) (*RistrettoCache, error) {
	if config == nil {
		config = DefaultConfig()
	}

	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: config.NumCounters,
		MaxCost:     config.MaxCost,
		BufferItems: config.BufferItems,
		OnEvict: func(item *ristretto.Item) {
			slog.Debug("cache entry evicted", slog.Uint64("key_hash", item.Key))
		},
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoCache{store: store}, nil
}

func (c *RistrettoCache) Get(ctx context.Context, key string) (any, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	return c.store.Get(key)
}

// Set stores the value and waits until it is visible to Get.
func (c *RistrettoCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	ok := c.store.SetWithTTL(key, value, 1, ttl)
	c.store.Wait()
	return ok
}

func (c *RistrettoCache) Delete(ctx context.Context, key string) {
	if ctx.Err() != nil {
		return
	}
	c.store.Del(key)
}

// GetOrSet returns the cached value or loads it once, even when called
// concurrently for the same key.
func (c *RistrettoCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	if value, found := c.Get(ctx, key); found {
		return value, nil
	}

	value, err, _ := c.singleGroup.Do(key, func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if value, found := c.Get(ctx, key); found {
			return value, nil
		}

		value, err := loader()
		if err != nil {
			return nil, err
		}

		c.Set(ctx, key, value, ttl)
		return value, nil
	})

	return value, err
}

func (c *RistrettoCache) Close() {
	c.store.Close()
}
