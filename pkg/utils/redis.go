package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"resume-builder/internal/config"
	"resume-builder/internal/logging"
)

// ErrRedisKeyNotFound is returned by Get when the key does not exist
var ErrRedisKeyNotFound = errors.New("redis key not found")

// RedisClient wraps the Redis client with the timeouts and TTL used for session data
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
	logger logging.Logger
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	// Parse Redis URL
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr: "localhost:6379",
			DB:   0,
		}
	}

	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}

	// Configure timeouts
	opts.DialTimeout = cfg.Redis.Timeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	return NewRedisClientFromOptions(opts, cfg.Session.TTL)
}

// NewRedisClientFromOptions builds a client from explicit options
func NewRedisClientFromOptions(opts *redis.Options, ttl time.Duration) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(opts),
		ttl:    ttl,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Get returns the raw value stored under key
func (r *RedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRedisKeyNotFound
		}
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key with the configured TTL
func (r *RedisClient) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to store value in Redis", map[string]interface{}{
			"key":        key,
			"size_bytes": len(value),
			"error":      err.Error(),
		})
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Del removes the given keys
func (r *RedisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// IsHealthy checks if Redis is connected and healthy
func (r *RedisClient) IsHealthy(ctx context.Context) error {
	return r.Ping(ctx)
}
