package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on top of a Redis instance, for the API
// server and other multi-instance deployments where an in-process or
// file-backed cache would not be shared.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache returns a Cache backed by a Redis client for addr. The
// client connects lazily on first use, so the returned error is always nil.
func NewRedisCache(addr string) (Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: client}, nil
}

// Get retrieves a value. hit is false if the key is absent.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A zero ttl means the entry never expires.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes a value. No error if the key does not exist.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)
