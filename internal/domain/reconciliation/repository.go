package reconciliation

import (
	"context"
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentFilter narrows document list queries. Nil fields do not filter.
type DocumentFilter struct {
	shared.Filter
	Status     *DocumentStatus
	StoreID    *uuid.UUID
	SupplierID *uuid.UUID
	ReturnID   *uuid.UUID
	SaleID     *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// DefaultDocumentFilter returns a filter with default paging
func DefaultDocumentFilter() DocumentFilter {
	return DocumentFilter{Filter: shared.DefaultFilter()}
}

// ReturnRepository defines the interface for return document persistence
type ReturnRepository interface {
	// FindByID finds a return by ID, with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnDocument, error)

	// FindByIDForUpdate finds a return and locks its row until the
	// surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ReturnDocument, error)

	// FindLine finds a single return line
	FindLine(ctx context.Context, lineID uuid.UUID) (*ReturnLineItem, error)

	// FindAll lists returns matching the filter and the total count
	FindAll(ctx context.Context, filter DocumentFilter) ([]*ReturnDocument, int64, error)

	// FindByStatuses lists returns for a store and supplier in any of the statuses.
	// A nil store or supplier matches all.
	FindByStatuses(ctx context.Context, storeID, supplierID *uuid.UUID, statuses ...DocumentStatus) ([]*ReturnDocument, error)

	// Create inserts a new return
	Create(ctx context.Context, r *ReturnDocument) error

	// SaveWithLock updates a return if its stored version still matches,
	// then increments the version. Lines are replaced.
	SaveWithLock(ctx context.Context, r *ReturnDocument) error

	// IncrementReplacedQuantity adds qty to a line's AlreadyReplacedQuantity
	// in one conditional statement that only succeeds while the result stays
	// within ReturnQuantity. Zero affected rows is ErrConservationViolation.
	IncrementReplacedQuantity(ctx context.Context, lineID uuid.UUID, qty decimal.Decimal) error

	// NextDocumentNumber generates the next RT-YYYY-NNNNN number
	NextDocumentNumber(ctx context.Context, at time.Time) (string, error)
}

// ReplacementRepository defines the interface for replacement document persistence
type ReplacementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReplacementDocument, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ReplacementDocument, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]*ReplacementDocument, int64, error)

	// FindInFlightCommitments returns line quantities of Draft and Pending
	// replacements against the return, except those of excludeID
	FindInFlightCommitments(ctx context.Context, returnID, excludeID uuid.UUID) ([]InFlightCommitment, error)

	Create(ctx context.Context, r *ReplacementDocument) error
	SaveWithLock(ctx context.Context, r *ReplacementDocument) error

	// NextDocumentNumber generates the next RP-YYYY-NNNNN number
	NextDocumentNumber(ctx context.Context, at time.Time) (string, error)
}

// ExchangeRepository defines the interface for exchange document persistence
type ExchangeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExchangeDocument, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ExchangeDocument, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]*ExchangeDocument, int64, error)
	Create(ctx context.Context, e *ExchangeDocument) error
	SaveWithLock(ctx context.Context, e *ExchangeDocument) error

	// SaveAllocations stores the informational allocation rows of a posted exchange
	SaveAllocations(ctx context.Context, exchangeID uuid.UUID, rows []ExchangeAllocation) error
	FindAllocations(ctx context.Context, exchangeID uuid.UUID) ([]ExchangeAllocation, error)

	// NextDocumentNumber generates the next EX-YYYY-NNNNN number
	NextDocumentNumber(ctx context.Context, at time.Time) (string, error)
}

// SaleLedgerRepository writes the exchange progress of sale lines
type SaleLedgerRepository interface {
	// FindSaleForUpdate loads a sale with its lines, locking them
	FindSaleForUpdate(ctx context.Context, saleID uuid.UUID) (*SaleTransaction, error)

	// IncrementExchangedQuantity adds qty to AlreadyExchangedQuantity only
	// while the result stays within OriginalQuantity. Zero affected rows is
	// ErrConservationViolation.
	IncrementExchangedQuantity(ctx context.Context, saleLineID uuid.UUID, qty decimal.Decimal) error
}

// PostingRecord marks a document as posted. Its primary key is the
// document id, so a document can be posted at most once.
type PostingRecord struct {
	DocumentID     uuid.UUID
	DocumentType   DocumentType
	DocumentNumber string
	PostedBy       *uuid.UUID
	PostedAt       time.Time
	MovementCount  int
}

// ErrAlreadyPosted is returned by PostingRecordRepository.Create when a
// record for the document exists.
var ErrAlreadyPosted = shared.NewKindError(shared.KindConflict, "ALREADY_POSTED", "Document has already been posted")

// PostingRecordRepository stores posting records
type PostingRecordRepository interface {
	Create(ctx context.Context, rec *PostingRecord) error
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*PostingRecord, error)
}
