package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind names why a batch quantity changed.
type MovementKind string

const (
	MovementReplacementReceipt MovementKind = "REPLACEMENT_RECEIPT"
	MovementExchangeIssue      MovementKind = "EXCHANGE_ISSUE"
	MovementExchangeRestock    MovementKind = "EXCHANGE_RESTOCK"
)

// IsValid reports whether k is a known movement kind
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementReplacementReceipt, MovementExchangeIssue, MovementExchangeRestock:
		return true
	}
	return false
}

// StockMovement is an append-only journal row for one batch delta applied
// while posting a document. Delta is signed: receipts positive, issues negative.
type StockMovement struct {
	ID            uuid.UUID
	DocumentID    uuid.UUID
	DocumentType  string
	DocumentLine  uuid.UUID
	BatchID       uuid.UUID
	ProductID     uuid.UUID
	Kind          MovementKind
	Delta         decimal.Decimal
	QuantityAfter decimal.Decimal
	CreatedAt     time.Time
}

// NewStockMovement records a delta against batch after it has been applied.
func NewStockMovement(documentID uuid.UUID, documentType string, lineID uuid.UUID, batch *StockBatch, kind MovementKind, delta decimal.Decimal) *StockMovement {
	return &StockMovement{
		ID:            uuid.New(),
		DocumentID:    documentID,
		DocumentType:  documentType,
		DocumentLine:  lineID,
		BatchID:       batch.ID,
		ProductID:     batch.ProductID,
		Kind:          kind,
		Delta:         delta,
		QuantityAfter: batch.Quantity,
		CreatedAt:     time.Now(),
	}
}
