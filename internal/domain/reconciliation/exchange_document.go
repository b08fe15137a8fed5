package reconciliation

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeReturnItem is part of an original sale line the customer brings back
type ExchangeReturnItem struct {
	ID                       uuid.UUID
	ExchangeID               uuid.UUID
	SaleLineID               uuid.UUID
	ProductID                uuid.UUID
	BatchID                  uuid.UUID
	OriginalQuantity         decimal.Decimal
	AlreadyExchangedQuantity decimal.Decimal // snapshot at selection
	ReturnQuantity           decimal.Decimal
	UnitPrice                decimal.Decimal
	Reason                   ReturnReason
}

// NewExchangeReturnItem creates a returned item seeded from a sale line.
// The unit price is the price the customer originally paid.
func NewExchangeReturnItem(saleLine *SaleLine, quantity decimal.Decimal, reason ReturnReason) ExchangeReturnItem {
	return ExchangeReturnItem{
		ID:                       uuid.New(),
		SaleLineID:               saleLine.ID,
		ProductID:                saleLine.ProductID,
		BatchID:                  saleLine.BatchID,
		OriginalQuantity:         saleLine.OriginalQuantity,
		AlreadyExchangedQuantity: saleLine.AlreadyExchangedQuantity,
		ReturnQuantity:           quantity,
		UnitPrice:                saleLine.UnitPrice,
		Reason:                   reason,
	}
}

// Amount returns ReturnQuantity * UnitPrice
func (i *ExchangeReturnItem) Amount() decimal.Decimal {
	return i.ReturnQuantity.Mul(i.UnitPrice)
}

// Priced returns the item as a PricedQuantity
func (i *ExchangeReturnItem) Priced() PricedQuantity {
	return PricedQuantity{Quantity: i.ReturnQuantity, UnitPrice: i.UnitPrice}
}

// Refresh updates the snapshot from the live sale line
func (i *ExchangeReturnItem) Refresh(line *SaleLine) {
	i.OriginalQuantity = line.OriginalQuantity
	i.AlreadyExchangedQuantity = line.AlreadyExchangedQuantity
}

// ExchangeNewItem is a product the customer takes in exchange
type ExchangeNewItem struct {
	ID         uuid.UUID
	ExchangeID uuid.UUID
	ProductID  uuid.UUID
	BatchID    uuid.UUID // batch the goods are issued from
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// NewExchangeNewItem creates a new exchange item
func NewExchangeNewItem(productID, batchID uuid.UUID, quantity, unitPrice decimal.Decimal) ExchangeNewItem {
	return ExchangeNewItem{
		ID:        uuid.New(),
		ProductID: productID,
		BatchID:   batchID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

// Amount returns Quantity * UnitPrice
func (i *ExchangeNewItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Priced returns the item as a PricedQuantity
func (i *ExchangeNewItem) Priced() PricedQuantity {
	return PricedQuantity{Quantity: i.Quantity, UnitPrice: i.UnitPrice}
}

// ExchangeHeader holds the editable header fields of an exchange
type ExchangeHeader struct {
	ExchangeDate time.Time
	Remark       string
}

// ExchangeDocument swaps items from a prior sale for newly chosen ones
type ExchangeDocument struct {
	shared.BaseAggregateRoot
	Lifecycle
	DocumentNumber string
	SaleID         uuid.UUID
	StoreID        uuid.UUID
	ExchangeDate   time.Time
	Remark         string
	ReturnItems    []ExchangeReturnItem
	NewItems       []ExchangeNewItem
}

// NewExchangeDocument creates a Draft exchange against a sale
func NewExchangeDocument(documentNumber string, sale *SaleTransaction, header ExchangeHeader, returnItems []ExchangeReturnItem, newItems []ExchangeNewItem) (*ExchangeDocument, error) {
	if documentNumber == "" {
		return nil, ErrMissingField.WithMessage("Document number cannot be empty").WithDetail("field", "document_number")
	}
	if sale == nil {
		return nil, ErrMissingField.WithMessage("An exchange must reference a sale").WithDetail("field", "sale_id")
	}
	e := &ExchangeDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(),
		DocumentNumber:    documentNumber,
		SaleID:            sale.ID,
		StoreID:           sale.StoreID,
		ExchangeDate:      header.ExchangeDate,
		Remark:            header.Remark,
	}
	e.setItems(returnItems, newItems)
	return e, nil
}

// Info identifies the document for events and responses
func (e *ExchangeDocument) Info() DocumentInfo {
	return DocumentInfo{DocumentType: DocumentTypeExchange, DocumentID: e.ID, DocumentNumber: e.DocumentNumber}
}

// Ref returns a reference to this document
func (e *ExchangeDocument) Ref() DocumentRef {
	return ExchangeRef(e.ID)
}

func (e *ExchangeDocument) setItems(returnItems []ExchangeReturnItem, newItems []ExchangeNewItem) {
	e.ReturnItems = make([]ExchangeReturnItem, 0, len(returnItems))
	for _, item := range returnItems {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.ExchangeID = e.ID
		e.ReturnItems = append(e.ReturnItems, item)
	}
	e.NewItems = make([]ExchangeNewItem, 0, len(newItems))
	for _, item := range newItems {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.ExchangeID = e.ID
		e.NewItems = append(e.NewItems, item)
	}
}

// UpdateHeader replaces the header fields
func (e *ExchangeDocument) UpdateHeader(h ExchangeHeader) error {
	if err := e.EnsureEditable(); err != nil {
		return err
	}
	e.ExchangeDate = h.ExchangeDate
	e.Remark = h.Remark
	e.Touch()
	return nil
}

// ReplaceItems swaps in new returned and new item lists
func (e *ExchangeDocument) ReplaceItems(returnItems []ExchangeReturnItem, newItems []ExchangeNewItem) error {
	if err := e.EnsureEditable(); err != nil {
		return err
	}
	e.setItems(returnItems, newItems)
	e.Touch()
	return nil
}

// RefreshSnapshots updates every returned item's snapshot from the live sale
func (e *ExchangeDocument) RefreshSnapshots(sale *SaleTransaction) {
	for i := range e.ReturnItems {
		if line := sale.FindLine(e.ReturnItems[i].SaleLineID); line != nil {
			e.ReturnItems[i].Refresh(line)
		}
	}
}

// Differential recomputes the totals from the current items
func (e *ExchangeDocument) Differential() Differential {
	returned := make([]PricedQuantity, len(e.ReturnItems))
	for i := range e.ReturnItems {
		returned[i] = e.ReturnItems[i].Priced()
	}
	issued := make([]PricedQuantity, len(e.NewItems))
	for i := range e.NewItems {
		issued[i] = e.NewItems[i].Priced()
	}
	return ExchangeDifferentialCalculator{}.Compute(returned, issued)
}

// TotalReturnAmount returns Σ returned quantity * unit price
func (e *ExchangeDocument) TotalReturnAmount() decimal.Decimal {
	return e.Differential().TotalReturn
}

// TotalNewAmount returns Σ new quantity * unit price
func (e *ExchangeDocument) TotalNewAmount() decimal.Decimal {
	return e.Differential().TotalNew
}

// DifferenceToPay returns TotalNewAmount - TotalReturnAmount
func (e *ExchangeDocument) DifferenceToPay() decimal.Decimal {
	return e.Differential().Difference
}

// Allocations returns the informational per-pair rows
func (e *ExchangeDocument) Allocations() []ExchangeAllocation {
	return ExchangeDifferentialCalculator{}.AllocateLines(e.ReturnItems, e.NewItems)
}

// IssueByBatch sums new-item quantities per batch
func (e *ExchangeDocument) IssueByBatch() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(e.NewItems))
	for _, item := range e.NewItems {
		out[item.BatchID] = out[item.BatchID].Add(item.Quantity)
	}
	return out
}

// Submit moves the exchange from Draft to Pending
func (e *ExchangeDocument) Submit() error {
	if err := e.submit(time.Now()); err != nil {
		return err
	}
	e.Touch()
	e.AddDomainEvent(NewDocumentSubmittedEvent(e.Info()))
	return nil
}

// MarkPosted moves the exchange from Pending to Posted
func (e *ExchangeDocument) MarkPosted(postedBy *uuid.UUID, policy RestockPolicy) error {
	if err := e.post(postedBy, time.Now()); err != nil {
		return err
	}
	e.Touch()
	e.AddDomainEvent(NewExchangePostedEvent(e, policy))
	return nil
}

// Cancel moves a Draft or Pending exchange to Cancelled
func (e *ExchangeDocument) Cancel(reason string) error {
	previous := e.Status
	if err := e.cancel(reason, time.Now()); err != nil {
		return err
	}
	e.Touch()
	e.AddDomainEvent(NewDocumentCancelledEvent(e.Info(), previous, reason))
	return nil
}
