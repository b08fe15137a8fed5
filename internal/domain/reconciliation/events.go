package reconciliation

import (
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeReturn      = "ReturnDocument"
	AggregateTypeReplacement = "ReplacementDocument"
	AggregateTypeExchange    = "ExchangeDocument"
)

// Event type constants
const (
	EventTypeDocumentSubmitted     = "DocumentSubmitted"
	EventTypeDocumentCancelled     = "DocumentCancelled"
	EventTypeReturnPosted          = "ReturnPosted"
	EventTypeReplacementPosted     = "ReplacementPosted"
	EventTypeExchangePosted        = "ExchangePosted"
	EventTypeReturnTotallyReplaced = "ReturnTotallyReplaced"
)

// AllEventTypes lists every event this package raises
func AllEventTypes() []string {
	return []string{
		EventTypeDocumentSubmitted,
		EventTypeDocumentCancelled,
		EventTypeReturnPosted,
		EventTypeReplacementPosted,
		EventTypeExchangePosted,
		EventTypeReturnTotallyReplaced,
	}
}

// AggregateTypeOf maps a document type to its aggregate type name
func AggregateTypeOf(t DocumentType) string {
	switch t {
	case DocumentTypeReturn:
		return AggregateTypeReturn
	case DocumentTypeReplacement:
		return AggregateTypeReplacement
	case DocumentTypeExchange:
		return AggregateTypeExchange
	}
	return string(t)
}

// DocumentInfo identifies the document an event is about
type DocumentInfo struct {
	DocumentType   DocumentType `json:"document_type"`
	DocumentID     uuid.UUID    `json:"document_id"`
	DocumentNumber string       `json:"document_number"`
}

// Ref returns a reference to the document
func (d DocumentInfo) Ref() DocumentRef {
	return DocumentRef{Type: d.DocumentType, ID: d.DocumentID}
}

// Number returns the human-readable document number
func (d DocumentInfo) Number() string {
	return d.DocumentNumber
}

// DocumentEvent is a domain event raised by one of the reconciliation documents
type DocumentEvent interface {
	shared.DomainEvent
	Ref() DocumentRef
	Number() string
}

func newDocumentEvent(eventType string, info DocumentInfo) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeOf(info.DocumentType), info.DocumentID)
}

// DocumentSubmittedEvent is raised when a document moves from Draft to Pending
type DocumentSubmittedEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
}

// NewDocumentSubmittedEvent creates a new DocumentSubmittedEvent
func NewDocumentSubmittedEvent(info DocumentInfo) *DocumentSubmittedEvent {
	return &DocumentSubmittedEvent{
		BaseDomainEvent: newDocumentEvent(EventTypeDocumentSubmitted, info),
		DocumentInfo:    info,
	}
}

// DocumentCancelledEvent is raised when a Draft or Pending document is cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
	PreviousStatus DocumentStatus `json:"previous_status"`
	Reason         string         `json:"reason"`
}

// NewDocumentCancelledEvent creates a new DocumentCancelledEvent
func NewDocumentCancelledEvent(info DocumentInfo, previous DocumentStatus, reason string) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: newDocumentEvent(EventTypeDocumentCancelled, info),
		DocumentInfo:    info,
		PreviousStatus:  previous,
		Reason:          reason,
	}
}

// ReturnLineInfo represents a return line in events
type ReturnLineInfo struct {
	LineID         uuid.UUID       `json:"line_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	BatchID        uuid.UUID       `json:"batch_id"`
	BatchNumber    string          `json:"batch_number"`
	ReturnQuantity decimal.Decimal `json:"return_quantity"`
	CostPrice      decimal.Decimal `json:"cost_price"`
}

// ReturnPostedEvent is raised when a supplier return is posted
type ReturnPostedEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
	StoreID     uuid.UUID        `json:"store_id"`
	SupplierID  uuid.UUID        `json:"supplier_id"`
	Lines       []ReturnLineInfo `json:"lines"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	PostedBy    *uuid.UUID       `json:"posted_by,omitempty"`
}

// NewReturnPostedEvent creates a new ReturnPostedEvent
func NewReturnPostedEvent(r *ReturnDocument) *ReturnPostedEvent {
	lines := make([]ReturnLineInfo, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReturnLineInfo{
			LineID:         l.ID,
			ProductID:      l.ProductID,
			BatchID:        l.BatchID,
			BatchNumber:    l.BatchNumber,
			ReturnQuantity: l.ReturnQuantity,
			CostPrice:      l.CostPrice,
		}
	}
	info := r.Info()
	return &ReturnPostedEvent{
		BaseDomainEvent: newDocumentEvent(EventTypeReturnPosted, info),
		DocumentInfo:    info,
		StoreID:         r.StoreID,
		SupplierID:      r.SupplierID,
		Lines:           lines,
		TotalAmount:     r.TotalAmount(),
		PostedBy:        r.PostedBy,
	}
}

// ReplacementLineInfo represents a replacement line in events
type ReplacementLineInfo struct {
	LineID       uuid.UUID       `json:"line_id"`
	ReturnLineID uuid.UUID       `json:"return_line_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
}

// ReplacementPostedEvent is raised when a replacement is posted and its
// goods have been received into stock
type ReplacementPostedEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
	ReturnID    uuid.UUID             `json:"return_id"`
	StoreID     uuid.UUID             `json:"store_id"`
	SupplierID  uuid.UUID             `json:"supplier_id"`
	Lines       []ReplacementLineInfo `json:"lines"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	PostedBy    *uuid.UUID            `json:"posted_by,omitempty"`
}

// NewReplacementPostedEvent creates a new ReplacementPostedEvent
func NewReplacementPostedEvent(r *ReplacementDocument) *ReplacementPostedEvent {
	lines := make([]ReplacementLineInfo, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = ReplacementLineInfo{
			LineID:       l.ID,
			ReturnLineID: l.ReturnLineID,
			ProductID:    l.ProductID,
			BatchID:      l.BatchID,
			Quantity:     l.Quantity,
			Rate:         l.Rate,
			Amount:       l.Amount(),
		}
	}
	info := r.Info()
	return &ReplacementPostedEvent{
		BaseDomainEvent: newDocumentEvent(EventTypeReplacementPosted, info),
		DocumentInfo:    info,
		ReturnID:        r.ReturnID,
		StoreID:         r.StoreID,
		SupplierID:      r.SupplierID,
		Lines:           lines,
		TotalAmount:     r.TotalAmount(),
		PostedBy:        r.PostedBy,
	}
}

// ExchangeItemInfo represents a returned or new exchange item in events
type ExchangeItemInfo struct {
	ItemID     uuid.UUID       `json:"item_id"`
	SaleLineID *uuid.UUID      `json:"sale_line_id,omitempty"`
	ProductID  uuid.UUID       `json:"product_id"`
	BatchID    uuid.UUID       `json:"batch_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Reason     ReturnReason    `json:"reason,omitempty"`
	Restocked  bool            `json:"restocked"`
}

// ExchangePostedEvent is raised when a customer exchange is posted
type ExchangePostedEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
	SaleID      uuid.UUID          `json:"sale_id"`
	StoreID     uuid.UUID          `json:"store_id"`
	ReturnItems []ExchangeItemInfo `json:"return_items"`
	NewItems    []ExchangeItemInfo `json:"new_items"`
	TotalReturn decimal.Decimal    `json:"total_return"`
	TotalNew    decimal.Decimal    `json:"total_new"`
	Difference  decimal.Decimal    `json:"difference"`
	Settlement  Settlement         `json:"settlement"`
	PostedBy    *uuid.UUID         `json:"posted_by,omitempty"`
}

// NewExchangePostedEvent creates a new ExchangePostedEvent
func NewExchangePostedEvent(e *ExchangeDocument, policy RestockPolicy) *ExchangePostedEvent {
	returned := make([]ExchangeItemInfo, len(e.ReturnItems))
	for i, item := range e.ReturnItems {
		saleLineID := item.SaleLineID
		returned[i] = ExchangeItemInfo{
			ItemID:     item.ID,
			SaleLineID: &saleLineID,
			ProductID:  item.ProductID,
			BatchID:    item.BatchID,
			Quantity:   item.ReturnQuantity,
			UnitPrice:  item.UnitPrice,
			Reason:     item.Reason,
			Restocked:  policy.Restocks(item.Reason),
		}
	}
	issued := make([]ExchangeItemInfo, len(e.NewItems))
	for i, item := range e.NewItems {
		issued[i] = ExchangeItemInfo{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			BatchID:   item.BatchID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}
	diff := e.Differential()
	info := e.Info()
	return &ExchangePostedEvent{
		BaseDomainEvent: newDocumentEvent(EventTypeExchangePosted, info),
		DocumentInfo:    info,
		SaleID:          e.SaleID,
		StoreID:         e.StoreID,
		ReturnItems:     returned,
		NewItems:        issued,
		TotalReturn:     diff.TotalReturn,
		TotalNew:        diff.TotalNew,
		Difference:      diff.Difference,
		Settlement:      diff.Settlement,
		PostedBy:        e.PostedBy,
	}
}

// ReturnTotallyReplacedEvent is raised when a posted replacement brings
// every line of its return to zero pending quantity
type ReturnTotallyReplacedEvent struct {
	shared.BaseDomainEvent
	DocumentInfo
	ReplacementID     uuid.UUID `json:"replacement_id"`
	ReplacementNumber string    `json:"replacement_number"`
}

// NewReturnTotallyReplacedEvent creates a new ReturnTotallyReplacedEvent
func NewReturnTotallyReplacedEvent(r *ReturnDocument, replacement *ReplacementDocument) *ReturnTotallyReplacedEvent {
	info := r.Info()
	return &ReturnTotallyReplacedEvent{
		BaseDomainEvent:   newDocumentEvent(EventTypeReturnTotallyReplaced, info),
		DocumentInfo:      info,
		ReplacementID:     replacement.ID,
		ReplacementNumber: replacement.DocumentNumber,
	}
}
