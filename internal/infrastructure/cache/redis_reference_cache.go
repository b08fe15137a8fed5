package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultScanBatchSize = 100

// RedisReferenceCache implements ReferenceCache on Redis so every instance
// shares one copy of the reference data
type RedisReferenceCache struct {
	client     *redis.Client
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisReferenceCacheOption is a functional option for configuring the cache
type RedisReferenceCacheOption func(*RedisReferenceCache)

// WithRedisTTL sets the TTL used when Set is called with zero
func WithRedisTTL(ttl time.Duration) RedisReferenceCacheOption {
	return func(c *RedisReferenceCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithRedisLogger sets the logger for the cache
func WithRedisLogger(logger *zap.Logger) RedisReferenceCacheOption {
	return func(c *RedisReferenceCache) {
		c.logger = logger
	}
}

// NewRedisReferenceCacheWithClient creates a cache over a client owned by
// the caller.
func NewRedisReferenceCacheWithClient(client *redis.Client, opts ...RedisReferenceCacheOption) *RedisReferenceCache {
	c := &RedisReferenceCache{
		client:     client,
		defaultTTL: defaultReferenceTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get decodes the cached value for key into dest
func (c *RedisReferenceCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Dropping corrupted reference cache entry",
			zap.String("key", key),
			zap.Error(err))
		_ = c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *RedisReferenceCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

// Delete removes the given keys
func (c *RedisReferenceCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// DeletePrefix scans for keys starting with prefix and deletes them in batches
func (c *RedisReferenceCache) DeletePrefix(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			removed += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated Redis reference entries",
		zap.String("prefix", prefix),
		zap.Int64("removed", removed))
	return nil
}

// Close leaves the shared client open; the cache factory closes it
func (c *RedisReferenceCache) Close() error {
	return nil
}

var _ ReferenceCache = (*RedisReferenceCache)(nil)
