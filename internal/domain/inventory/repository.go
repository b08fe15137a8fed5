package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatchRepository is the stock-batch read/write gateway used by the
// posting path. Increase and Decrease are single atomic statements so two
// postings touching one batch cannot lose an update.
type StockBatchRepository interface {
	// FindByID returns ErrBatchNotFound when the batch does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)

	// FindByIDs loads several batches; missing ids are absent from the map
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*StockBatch, error)

	// Increase adds quantity and returns the batch after the change
	Increase(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*StockBatch, error)

	// Decrease subtracts quantity only if the batch still covers it.
	// Otherwise it returns ErrInsufficientBatchStock with the shortfall and
	// leaves the row unchanged.
	Decrease(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) (*StockBatch, error)

	// Save creates or replaces a batch
	Save(ctx context.Context, batch *StockBatch) error
}

// StockMovementRepository stores the movement journal
type StockMovementRepository interface {
	Append(ctx context.Context, movements ...*StockMovement) error
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]*StockMovement, error)
}
