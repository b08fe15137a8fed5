package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
	defaultReferenceTTL    = 5 * time.Minute
)

// ReferenceCache stores JSON-encoded reference records by key
type ReferenceCache interface {
	// Get decodes the cached value for key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// cacheEntry wraps an encoded value with its expiration time
type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryReferenceCache is a process-local ReferenceCache. Values are kept
// encoded so callers never share the cached instance.
type InMemoryReferenceCache struct {
	entries    sync.Map // map[string]*cacheEntry
	defaultTTL time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	hits   int64
	misses int64
}

// InMemoryReferenceCacheOption is a functional option for configuring the cache
type InMemoryReferenceCacheOption func(*InMemoryReferenceCache)

// WithInMemoryTTL sets the TTL used when Set is called with zero
func WithInMemoryTTL(ttl time.Duration) InMemoryReferenceCacheOption {
	return func(c *InMemoryReferenceCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryReferenceCacheOption {
	return func(c *InMemoryReferenceCache) {
		c.logger = logger
	}
}

// NewInMemoryReferenceCache creates a new in-memory cache and starts its
// cleanup goroutine. Call Close to stop it.
func NewInMemoryReferenceCache(opts ...InMemoryReferenceCacheOption) *InMemoryReferenceCache {
	c := &InMemoryReferenceCache{
		defaultTTL: defaultReferenceTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupExpired()

	return c
}

// Get decodes the cached value for key into dest
func (c *InMemoryReferenceCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			if err := json.Unmarshal(entry.data, dest); err != nil {
				c.entries.Delete(key)
				return false, fmt.Errorf("failed to decode cached %s: %w", key, err)
			}
			atomic.AddInt64(&c.hits, 1)
			return true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	return false, nil
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *InMemoryReferenceCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	c.entries.Store(key, &cacheEntry{data: data, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes the given keys
func (c *InMemoryReferenceCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.entries.Delete(key)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix
func (c *InMemoryReferenceCache) DeletePrefix(_ context.Context, prefix string) error {
	var removed int
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	c.logger.Debug("Invalidated in-memory reference entries",
		zap.String("prefix", prefix),
		zap.Int("removed", removed))
	return nil
}

// Close stops the cleanup goroutine. Safe to call more than once.
func (c *InMemoryReferenceCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Size returns the number of stored entries, expired ones included
func (c *InMemoryReferenceCache) Size() int {
	var n int
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stats returns hit and miss counters
func (c *InMemoryReferenceCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryReferenceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ ReferenceCache = (*InMemoryReferenceCache)(nil)
