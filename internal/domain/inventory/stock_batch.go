package inventory

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockBatch is a quantity of one product held at one store under a shared
// batch number and expiry date. It is the unit stock is adjusted against.
type StockBatch struct {
	shared.BaseEntity
	StoreID     uuid.UUID
	ProductID   uuid.UUID
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    decimal.Decimal // on hand
	CostPrice   decimal.Decimal
	Version     int
}

// NewStockBatch creates a new stock batch
func NewStockBatch(
	storeID, productID uuid.UUID,
	batchNumber string,
	expiryDate *time.Time,
	quantity, costPrice decimal.Decimal,
) *StockBatch {
	return &StockBatch{
		BaseEntity:  shared.NewBaseEntity(),
		StoreID:     storeID,
		ProductID:   productID,
		BatchNumber: batchNumber,
		ExpiryDate:  expiryDate,
		Quantity:    quantity,
		CostPrice:   costPrice,
		Version:     1,
	}
}

// IsExpired returns true if the batch has expired
func (b *StockBatch) IsExpired() bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(time.Now())
}

// Covers reports whether the batch can supply quantity.
func (b *StockBatch) Covers(quantity decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(quantity)
}

// Shortfall returns how much of quantity the batch cannot supply.
func (b *StockBatch) Shortfall(quantity decimal.Decimal) decimal.Decimal {
	if b.Covers(quantity) {
		return decimal.Zero
	}
	return quantity.Sub(b.Quantity)
}

// Receive adds goods to the batch. Receipts cannot fail on stock level.
func (b *StockBatch) Receive(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidMovementQuantity
	}
	b.Quantity = b.Quantity.Add(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Issue removes goods from the batch. Unlike a partial deduction it never
// clamps: a batch that cannot cover the full quantity is left untouched.
func (b *StockBatch) Issue(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return ErrInvalidMovementQuantity
	}
	if !b.Covers(quantity) {
		return NewInsufficientBatchStockError(b.ID, b.BatchNumber, quantity, b.Quantity)
	}
	b.Quantity = b.Quantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	return nil
}

// Value returns quantity on hand at cost
func (b *StockBatch) Value() decimal.Decimal {
	return b.Quantity.Mul(b.CostPrice)
}

// Matches reports whether the batch holds productID at storeID
func (b *StockBatch) Matches(productID, storeID uuid.UUID) bool {
	return b.ProductID == productID && b.StoreID == storeID
}
