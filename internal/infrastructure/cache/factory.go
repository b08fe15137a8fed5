package cache

import (
	"fmt"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/erp/reconciliation/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the cache components from configuration. When Redis is
// enabled one client is shared by the reference cache, the invalidator and
// the idempotency store.
type Factory struct {
	redisConfig           config.RedisConfig
	reconConfig           config.ReconciliationConfig
	logger                *zap.Logger
	allowInMemoryFallback bool

	client *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores
// when Redis is enabled but unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(redisCfg config.RedisConfig, reconCfg config.ReconciliationConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           redisCfg,
		reconConfig:           reconCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// redisClient returns the shared client, connecting on first use. A nil
// client with a nil error means Redis is disabled or unavailable and the
// fallback is allowed.
func (f *Factory) redisClient() (*redis.Client, error) {
	if f.client != nil || !f.redisConfig.Enabled {
		return f.client, nil
	}

	client, err := newRedisClient(f.redisConfig)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Instances will not share reference data or idempotency state.",
			zap.Error(err))
		return nil, nil
	}
	f.client = client
	return client, nil
}

// CreateIdempotencyStore returns a Redis store when Redis is available and
// an in-memory store otherwise
func (f *Factory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	client, err := f.redisClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return NewInMemoryIdempotencyStore(), nil
	}
	f.logger.Info("using Redis idempotency store")
	return NewRedisIdempotencyStoreWithClient(client, ""), nil
}

// CreateReferenceGateway wraps next in a read-through cache. With Redis the
// cache gets a shared tier and broadcasts invalidations.
func (f *Factory) CreateReferenceGateway(next reconciliation.ReferenceDataGateway) (*CachedReferenceDataGateway, error) {
	l1 := NewInMemoryReferenceCache(
		WithInMemoryTTL(f.reconConfig.ReferenceCacheTTL),
		WithInMemoryLogger(f.logger.Named("reference-l1")),
	)
	opts := []CachedReferenceOption{
		WithLocalTTL(f.reconConfig.ReferenceCacheTTL),
		WithGatewayLogger(f.logger.Named("reference-cache")),
	}

	client, err := f.redisClient()
	if err != nil {
		_ = l1.Close()
		return nil, err
	}
	if client != nil {
		l2 := NewRedisReferenceCacheWithClient(client,
			WithRedisTTL(f.reconConfig.SharedCacheTTL),
			WithRedisLogger(f.logger.Named("reference-l2")),
		)
		inv := NewRedisReferenceInvalidatorWithClient(client,
			WithInvalidatorChannel(f.reconConfig.InvalidateChannel),
			WithInvalidatorLogger(f.logger.Named("reference-invalidation")),
		)
		opts = append(opts, WithSharedCache(l2, f.reconConfig.SharedCacheTTL), WithInvalidator(inv))
		f.logger.Info("using tiered reference cache with Redis")
	}

	return NewCachedReferenceDataGateway(next, l1, opts...), nil
}

// Close closes the shared Redis client, if one was opened
func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
