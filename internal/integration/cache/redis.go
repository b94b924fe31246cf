// Package cache implements the cache service and the ledger invalidation
// protocol over Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledger-keeper/backend/internal/application/adapter"
	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// scanBatchSize bounds a single SCAN page.
const scanBatchSize = 200

// redisCache implements adapter.CacheService over a Redis client. Per-key
// atomicity comes from Redis itself; no cross-key locking exists.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates the cache service.
func NewRedisCache(client *redis.Client) adapter.CacheService {
	return &redisCache{client: client}
}

// Get returns the cached value. A miss is (nil, false, nil).
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, c.systemError("get", key, err)
	}
	return raw, true, nil
}

// Set stores value under key with the given TTL; a zero TTL never expires.
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return c.systemError("set", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return c.systemError("delete", keys[0], err)
	}
	return nil
}

// DeleteByPrefix removes every key under prefix.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	keys, err := c.Keys(ctx, prefix)
	if err != nil {
		return err
	}
	return c.Delete(ctx, keys...)
}

// Keys lists the live keys under prefix.
func (c *redisCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, c.systemError("scan", prefix, err)
	}
	return keys, nil
}

func (c *redisCache) systemError(op, key string, err error) *domainerror.Error {
	return domainerror.NewSystem(
		domainerror.ErrCodeCacheFailure,
		"cache "+op+" failed",
		err,
	).WithMeta("operation", op).WithMeta("key", key)
}
