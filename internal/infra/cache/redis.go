package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

var _ Cache = (*RedisCache)(nil)

// RedisCache stores msgpack encoded values in Redis.
type RedisCache struct {
	client CacheClient
	config *RedisConfig
}

type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         "localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// NewRedisClient dials Redis and checks the connection.
func NewRedisClient(config *RedisConfig) (*redis.Client, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolTimeout:  config.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.Info("redis client initialized",
		slog.String("addr", config.Addr),
		slog.Int("db", config.DB),
		slog.Int("pool_size", config.PoolSize))

	return client, nil
}

func NewRedisCache(config *RedisConfig) (*RedisCache, error) {
	client, err := NewRedisClient(config)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheWithClient(client, config), nil
}

func NewRedisCacheWithClient(client CacheClient, config *RedisConfig) *RedisCache {
	if config == nil {
		config = DefaultRedisConfig()
	}
	return &RedisCache{
		client: client,
		config: config,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string) (any, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("failed to get value from redis",
				slog.String("key", key),
				slog.Any("error", err))
		}
		return nil, false
	}

	var value any
	if err := msgpack.Unmarshal(data, &value); err != nil {
		slog.Error("failed to decode value from redis",
			slog.String("key", key),
			slog.Any("error", err))
		return nil, false
	}

	return value, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := msgpack.Marshal(value)
	if err != nil {
		slog.Error("failed to encode value for redis",
			slog.String("key", key),
			slog.Any("error", err))
		return false
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set value in redis",
			slog.String("key", key),
			slog.Any("error", err))
		return false
	}

	return true
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Error("failed to delete value from redis",
			slog.String("key", key),
			slog.Any("error", err))
	}
}

func (c *RedisCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	if value, found := c.Get(ctx, key); found {
		return value, nil
	}

	value, err := loader()
	if err != nil {
		return nil, err
	}

	c.Set(ctx, key, value, ttl)
	return value, nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
