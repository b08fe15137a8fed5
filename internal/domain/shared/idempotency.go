package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event deliveries a handler already
// processed. The outbox delivers at least once; the store turns that into
// at most one side effect per (handler, event) key within the TTL.
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly marked,
	// false if it had been marked before.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
