package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceKeyPrefix = "reference:"

// grnListPrefix keys the per store/supplier GRN lists. Lists are dropped with
// any GRN invalidation since a GRN may appear in any of them.
const grnListPrefix = referenceKeyPrefix + "grn-list:"

// ReferenceCacheStats holds read-through counters
type ReferenceCacheStats struct {
	L1Hits int64 `json:"l1_hits"`
	L2Hits int64 `json:"l2_hits"`
	Misses int64 `json:"misses"`
}

// CachedReferenceDataGateway is a read-through cache in front of a
// ReferenceDataGateway. L1 is local to the process, L2 (optional) is shared
// through Redis, and invalidations are broadcast to other instances when an
// invalidator is configured. Sales are never cached because their exchanged
// quantities move while exchanges post.
type CachedReferenceDataGateway struct {
	next        reconciliation.ReferenceDataGateway
	l1          ReferenceCache
	l2          ReferenceCache
	invalidator *RedisReferenceInvalidator
	instanceID  string
	l1TTL       time.Duration
	l2TTL       time.Duration
	logger      *zap.Logger

	l1Hits int64
	l2Hits int64
	misses int64
}

// CachedReferenceOption is a functional option for configuring the gateway
type CachedReferenceOption func(*CachedReferenceDataGateway)

// WithSharedCache adds a second, shared cache tier
func WithSharedCache(l2 ReferenceCache, ttl time.Duration) CachedReferenceOption {
	return func(g *CachedReferenceDataGateway) {
		g.l2 = l2
		g.l2TTL = ttl
	}
}

// WithInvalidator broadcasts invalidations to other instances
func WithInvalidator(inv *RedisReferenceInvalidator) CachedReferenceOption {
	return func(g *CachedReferenceDataGateway) {
		g.invalidator = inv
	}
}

// WithLocalTTL sets the TTL of L1 entries
func WithLocalTTL(ttl time.Duration) CachedReferenceOption {
	return func(g *CachedReferenceDataGateway) {
		if ttl > 0 {
			g.l1TTL = ttl
		}
	}
}

// WithGatewayLogger sets the logger
func WithGatewayLogger(logger *zap.Logger) CachedReferenceOption {
	return func(g *CachedReferenceDataGateway) {
		g.logger = logger
	}
}

// NewCachedReferenceDataGateway wraps next with l1 as the local cache
func NewCachedReferenceDataGateway(next reconciliation.ReferenceDataGateway, l1 ReferenceCache, opts ...CachedReferenceOption) *CachedReferenceDataGateway {
	g := &CachedReferenceDataGateway{
		next:       next,
		l1:         l1,
		instanceID: uuid.NewString(),
		l1TTL:      defaultReferenceTTL,
		l2TTL:      defaultReferenceTTL,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func referenceKey(kind reconciliation.ReferenceKind, id uuid.UUID) string {
	return referenceKeyPrefix + string(kind) + ":" + id.String()
}

// readThrough returns the cached value for key or loads it and fills both
// tiers. Cache failures are logged and fall through to the loader.
func readThrough[T any](ctx context.Context, g *CachedReferenceDataGateway, key string, load func() (T, error)) (T, error) {
	var value T

	found, err := g.l1.Get(ctx, key, &value)
	if err != nil {
		g.logger.Warn("L1 reference cache error", zap.String("key", key), zap.Error(err))
	}
	if found {
		atomic.AddInt64(&g.l1Hits, 1)
		return value, nil
	}

	if g.l2 != nil {
		found, err = g.l2.Get(ctx, key, &value)
		if err != nil {
			g.logger.Warn("L2 reference cache error", zap.String("key", key), zap.Error(err))
		}
		if found {
			atomic.AddInt64(&g.l2Hits, 1)
			if err := g.l1.Set(ctx, key, value, g.l1TTL); err != nil {
				g.logger.Warn("Failed to populate L1 reference cache", zap.String("key", key), zap.Error(err))
			}
			return value, nil
		}
	}

	atomic.AddInt64(&g.misses, 1)
	value, err = load()
	if err != nil {
		return value, err
	}

	if g.l2 != nil {
		if err := g.l2.Set(ctx, key, value, g.l2TTL); err != nil {
			g.logger.Warn("Failed to populate L2 reference cache", zap.String("key", key), zap.Error(err))
		}
	}
	if err := g.l1.Set(ctx, key, value, g.l1TTL); err != nil {
		g.logger.Warn("Failed to populate L1 reference cache", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// GetStore returns a store, cached
func (g *CachedReferenceDataGateway) GetStore(ctx context.Context, id uuid.UUID) (*reconciliation.Store, error) {
	return readThrough(ctx, g, referenceKey(reconciliation.ReferenceStore, id), func() (*reconciliation.Store, error) {
		return g.next.GetStore(ctx, id)
	})
}

// GetSupplier returns a supplier, cached
func (g *CachedReferenceDataGateway) GetSupplier(ctx context.Context, id uuid.UUID) (*reconciliation.Supplier, error) {
	return readThrough(ctx, g, referenceKey(reconciliation.ReferenceSupplier, id), func() (*reconciliation.Supplier, error) {
		return g.next.GetSupplier(ctx, id)
	})
}

// GetProduct returns a product, cached
func (g *CachedReferenceDataGateway) GetProduct(ctx context.Context, id uuid.UUID) (*reconciliation.Product, error) {
	return readThrough(ctx, g, referenceKey(reconciliation.ReferenceProduct, id), func() (*reconciliation.Product, error) {
		return g.next.GetProduct(ctx, id)
	})
}

// GetGRN returns a goods-received note with its lines, cached
func (g *CachedReferenceDataGateway) GetGRN(ctx context.Context, id uuid.UUID) (*reconciliation.GoodsReceivedNote, error) {
	return readThrough(ctx, g, referenceKey(reconciliation.ReferenceGRN, id), func() (*reconciliation.GoodsReceivedNote, error) {
		return g.next.GetGRN(ctx, id)
	})
}

// ListGRNs returns the GRNs of a store and supplier, cached per pair
func (g *CachedReferenceDataGateway) ListGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]*reconciliation.GoodsReceivedNote, error) {
	key := grnListPrefix + storeID.String() + ":" + supplierID.String()
	return readThrough(ctx, g, key, func() ([]*reconciliation.GoodsReceivedNote, error) {
		return g.next.ListGRNs(ctx, storeID, supplierID)
	})
}

// GetSale always reads through to the underlying gateway
func (g *CachedReferenceDataGateway) GetSale(ctx context.Context, id uuid.UUID) (*reconciliation.SaleTransaction, error) {
	return g.next.GetSale(ctx, id)
}

// Invalidate drops cached entries from both tiers and tells other instances
// to drop theirs. A nil id drops the whole kind; an empty kind drops
// everything.
func (g *CachedReferenceDataGateway) Invalidate(ctx context.Context, kind reconciliation.ReferenceKind, id *uuid.UUID) error {
	if err := g.drop(ctx, g.l1, kind, id); err != nil {
		return err
	}
	if g.l2 != nil {
		if err := g.drop(ctx, g.l2, kind, id); err != nil {
			return err
		}
	}

	msg := InvalidationMessage{Kind: string(kind), Origin: g.instanceID}
	if id != nil {
		msg.ID = id.String()
	}
	g.logger.Info("Reference cache invalidated",
		zap.String("kind", msg.Kind),
		zap.String("id", msg.ID))

	if g.invalidator == nil {
		return nil
	}
	if err := g.invalidator.Publish(ctx, msg); err != nil {
		g.logger.Warn("Failed to broadcast reference invalidation", zap.Error(err))
	}
	return nil
}

func (g *CachedReferenceDataGateway) drop(ctx context.Context, c ReferenceCache, kind reconciliation.ReferenceKind, id *uuid.UUID) error {
	switch {
	case kind == "":
		return c.DeletePrefix(ctx, referenceKeyPrefix)
	case id == nil:
		if err := c.DeletePrefix(ctx, referenceKeyPrefix+string(kind)+":"); err != nil {
			return err
		}
	default:
		if err := c.Delete(ctx, referenceKey(kind, *id)); err != nil {
			return err
		}
	}
	if kind == reconciliation.ReferenceGRN {
		return c.DeletePrefix(ctx, grnListPrefix)
	}
	return nil
}

// StartInvalidationSubscription drops L1 entries named by invalidations
// from other instances. It blocks until ctx is done.
func (g *CachedReferenceDataGateway) StartInvalidationSubscription(ctx context.Context) error {
	if g.invalidator == nil {
		return nil
	}
	return g.invalidator.Subscribe(ctx, g.handleInvalidation)
}

func (g *CachedReferenceDataGateway) handleInvalidation(msg InvalidationMessage) {
	if msg.Origin == g.instanceID {
		return
	}

	var id *uuid.UUID
	if msg.ID != "" {
		parsed, err := uuid.Parse(msg.ID)
		if err != nil {
			g.logger.Error("Invalid id in reference invalidation", zap.String("id", msg.ID), zap.Error(err))
			return
		}
		id = &parsed
	}
	if err := g.drop(context.Background(), g.l1, reconciliation.ReferenceKind(msg.Kind), id); err != nil {
		g.logger.Error("Failed to apply reference invalidation", zap.Error(err))
	}
}

// Stats returns read-through counters
func (g *CachedReferenceDataGateway) Stats() ReferenceCacheStats {
	return ReferenceCacheStats{
		L1Hits: atomic.LoadInt64(&g.l1Hits),
		L2Hits: atomic.LoadInt64(&g.l2Hits),
		Misses: atomic.LoadInt64(&g.misses),
	}
}

// Close releases both tiers and the invalidator
func (g *CachedReferenceDataGateway) Close() error {
	if g.invalidator != nil {
		_ = g.invalidator.Close()
	}
	if g.l2 != nil {
		_ = g.l2.Close()
	}
	return g.l1.Close()
}

var (
	_ reconciliation.ReferenceDataGateway      = (*CachedReferenceDataGateway)(nil)
	_ reconciliation.ReferenceCacheInvalidator = (*CachedReferenceDataGateway)(nil)
)
