package inventory

import (
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock errors are raised only while a document is being posted.
var (
	ErrBatchNotFound           = shared.NewKindError(shared.KindStock, "BATCH_NOT_FOUND", "Stock batch not found")
	ErrInsufficientBatchStock  = shared.NewKindError(shared.KindStock, "INSUFFICIENT_BATCH_STOCK", "Insufficient stock in batch")
	ErrBatchMismatch           = shared.NewKindError(shared.KindStock, "BATCH_MISMATCH", "Stock batch does not hold this product at this store")
	ErrInvalidMovementQuantity = shared.NewDomainError("INVALID_QUANTITY", "Stock movement quantity must be positive")
)

// Detail keys carried by ErrInsufficientBatchStock.
const (
	DetailBatchID     = "batch_id"
	DetailBatchNumber = "batch_number"
	DetailRequested   = "requested"
	DetailAvailable   = "available"
	DetailShortfall   = "shortfall"
)

// NewBatchNotFoundError names the batch that could not be found.
func NewBatchNotFoundError(batchID uuid.UUID) *shared.DomainError {
	return ErrBatchNotFound.
		WithMessage("Stock batch %s not found", batchID).
		WithDetail(DetailBatchID, batchID.String())
}

// NewBatchMismatchError reports a batch that belongs to another product or store.
func NewBatchMismatchError(batch *StockBatch, productID, storeID uuid.UUID) *shared.DomainError {
	return ErrBatchMismatch.
		WithMessage("Batch %s holds product %s at store %s, expected product %s at store %s",
			batch.BatchNumber, batch.ProductID, batch.StoreID, productID, storeID).
		WithDetail(DetailBatchID, batch.ID.String()).
		WithDetail(DetailBatchNumber, batch.BatchNumber)
}

// NewInsufficientBatchStockError reports the exact shortfall so the user
// can lower the quantity or pick another batch.
func NewInsufficientBatchStockError(batchID uuid.UUID, batchNumber string, requested, available decimal.Decimal) *shared.DomainError {
	shortfall := requested.Sub(available)
	return ErrInsufficientBatchStock.
		WithMessage("Batch %s has %s on hand, %s requested (short by %s)",
			batchNumber, available.String(), requested.String(), shortfall.String()).
		WithDetail(DetailBatchID, batchID.String()).
		WithDetail(DetailBatchNumber, batchNumber).
		WithDetail(DetailRequested, requested).
		WithDetail(DetailAvailable, available).
		WithDetail(DetailShortfall, shortfall)
}

// ShortfallOf extracts the shortfall from an insufficient stock error.
func ShortfallOf(err error) (decimal.Decimal, bool) {
	de, ok := shared.AsDomainError(err)
	if !ok || de.Code != ErrInsufficientBatchStock.Code {
		return decimal.Zero, false
	}
	v, ok := de.Detail(DetailShortfall)
	if !ok {
		return decimal.Zero, false
	}
	d, ok := v.(decimal.Decimal)
	return d, ok
}
