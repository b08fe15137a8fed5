package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Reference data is owned by other parts of the ERP. The reconciliation
// engine only reads it.

// Store is a selling or receiving location
type Store struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// Supplier is a vendor goods are returned to
type Supplier struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// Product is a sellable item
type Product struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
}

// GRNStatus is the state of a goods-received note
type GRNStatus string

const (
	GRNStatusDraft     GRNStatus = "DRAFT"
	GRNStatusPosted    GRNStatus = "POSTED"
	GRNStatusCancelled GRNStatus = "CANCELLED"
)

// GoodsReceivedNote records a supplier delivery into a store
type GoodsReceivedNote struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	StoreID      uuid.UUID `json:"store_id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	Status       GRNStatus `json:"status"`
	ReceivedDate time.Time `json:"received_date"`
	Lines        []GRNLine `json:"lines"`
}

// GRNLine is one received product batch
type GRNLine struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	BatchID          uuid.UUID       `json:"batch_id"`
	BatchNumber      string          `json:"batch_number"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	CostPrice        decimal.Decimal `json:"cost_price"`
}

// IsPosted returns true if the delivery has been finalized
func (g *GoodsReceivedNote) IsPosted() bool {
	return g.Status == GRNStatusPosted
}

// FindLine returns the GRN line for a product and batch
func (g *GoodsReceivedNote) FindLine(productID, batchID uuid.UUID) *GRNLine {
	for i := range g.Lines {
		if g.Lines[i].ProductID == productID && g.Lines[i].BatchID == batchID {
			return &g.Lines[i]
		}
	}
	return nil
}

// FindLineByID returns the GRN line with the given id
func (g *GoodsReceivedNote) FindLineByID(id uuid.UUID) *GRNLine {
	for i := range g.Lines {
		if g.Lines[i].ID == id {
			return &g.Lines[i]
		}
	}
	return nil
}

// SaleTransaction is a completed customer sale
type SaleTransaction struct {
	ID       uuid.UUID  `json:"id"`
	Number   string     `json:"number"`
	StoreID  uuid.UUID  `json:"store_id"`
	SaleDate time.Time  `json:"sale_date"`
	Lines    []SaleLine `json:"lines"`
}

// SaleLine is one product sold. AlreadyExchangedQuantity is the only field
// the engine writes, and only when an exchange is posted.
type SaleLine struct {
	ID                       uuid.UUID       `json:"id"`
	SaleID                   uuid.UUID       `json:"sale_id"`
	ProductID                uuid.UUID       `json:"product_id"`
	BatchID                  uuid.UUID       `json:"batch_id"`
	OriginalQuantity         decimal.Decimal `json:"original_quantity"`
	AlreadyExchangedQuantity decimal.Decimal `json:"already_exchanged_quantity"`
	UnitPrice                decimal.Decimal `json:"unit_price"`
}

// RemainingQuantity is the part of the sold quantity not yet exchanged
func (l *SaleLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OriginalQuantity.Sub(l.AlreadyExchangedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// FindLine returns the sale line with the given id
func (s *SaleTransaction) FindLine(id uuid.UUID) *SaleLine {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return &s.Lines[i]
		}
	}
	return nil
}

// ReferenceDataGateway is the read-only view onto master and source data.
// Lookups of missing records return shared.ErrNotFound.
type ReferenceDataGateway interface {
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (*Supplier, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)
	GetGRN(ctx context.Context, id uuid.UUID) (*GoodsReceivedNote, error)
	ListGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]*GoodsReceivedNote, error)
	GetSale(ctx context.Context, id uuid.UUID) (*SaleTransaction, error)
}

// ReferenceKind names a cached reference collection
type ReferenceKind string

const (
	ReferenceStore    ReferenceKind = "store"
	ReferenceSupplier ReferenceKind = "supplier"
	ReferenceProduct  ReferenceKind = "product"
	ReferenceGRN      ReferenceKind = "grn"
)

// ReferenceCacheInvalidator drops cached reference records. A nil id drops
// the whole kind; an empty kind drops everything.
type ReferenceCacheInvalidator interface {
	Invalidate(ctx context.Context, kind ReferenceKind, id *uuid.UUID) error
}
