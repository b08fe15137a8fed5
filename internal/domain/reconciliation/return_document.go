package reconciliation

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnLineItem is one product batch sent back to the supplier
type ReturnLineItem struct {
	ID                      uuid.UUID
	ReturnID                uuid.UUID
	ProductID               uuid.UUID
	ProductName             string
	BatchID                 uuid.UUID
	BatchNumber             string
	ExpiryDate              *time.Time
	ReturnQuantity          decimal.Decimal
	AlreadyReplacedQuantity decimal.Decimal // only grows, through QuantityLedger.ApplyPostedReplacement
	CostPrice               decimal.Decimal
	SourceGRNLineID         *uuid.UUID
}

// NewReturnLineItem creates a return line with nothing replaced yet
func NewReturnLineItem(productID, batchID uuid.UUID, batchNumber string, expiry *time.Time, quantity, costPrice decimal.Decimal) ReturnLineItem {
	return ReturnLineItem{
		ID:                      uuid.New(),
		ProductID:               productID,
		BatchID:                 batchID,
		BatchNumber:             batchNumber,
		ExpiryDate:              expiry,
		ReturnQuantity:          quantity,
		AlreadyReplacedQuantity: decimal.Zero,
		CostPrice:               costPrice,
	}
}

// PendingQuantity is the returned quantity not yet made good by a posted replacement
func (l *ReturnLineItem) PendingQuantity() decimal.Decimal {
	return QuantityLedger{}.PendingQuantity(l)
}

// IsFullyReplaced returns true if nothing is pending on the line
func (l *ReturnLineItem) IsFullyReplaced() bool {
	return l.PendingQuantity().IsZero()
}

// Amount returns ReturnQuantity * CostPrice
func (l *ReturnLineItem) Amount() decimal.Decimal {
	return l.ReturnQuantity.Mul(l.CostPrice)
}

// ReturnHeader holds the editable header fields of a return
type ReturnHeader struct {
	StoreID     uuid.UUID
	SupplierID  uuid.UUID
	SourceGRNID *uuid.UUID
	ReturnDate  time.Time
	Remark      string
}

// ReturnDocument is goods sent back to a supplier. Replacements made good
// against it are tracked per line through AlreadyReplacedQuantity.
type ReturnDocument struct {
	shared.BaseAggregateRoot
	Lifecycle
	DocumentNumber string
	StoreID        uuid.UUID
	SupplierID     uuid.UUID
	SourceGRNID    *uuid.UUID
	ReturnDate     time.Time
	Remark         string
	Lines          []ReturnLineItem
}

// NewReturnDocument creates a Draft return. Structural rules are checked
// by ValidateReturn, not here, so a draft may be saved incomplete.
func NewReturnDocument(documentNumber string, header ReturnHeader, lines []ReturnLineItem) (*ReturnDocument, error) {
	if documentNumber == "" {
		return nil, ErrMissingField.WithMessage("Document number cannot be empty").WithDetail("field", "document_number")
	}
	r := &ReturnDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(),
		DocumentNumber:    documentNumber,
	}
	r.applyHeader(header)
	r.Lines = make([]ReturnLineItem, 0, len(lines))
	for _, l := range lines {
		l.ReturnID = r.ID
		l.AlreadyReplacedQuantity = decimal.Zero
		r.Lines = append(r.Lines, l)
	}
	return r, nil
}

// Info identifies the document for events and responses
func (r *ReturnDocument) Info() DocumentInfo {
	return DocumentInfo{DocumentType: DocumentTypeReturn, DocumentID: r.ID, DocumentNumber: r.DocumentNumber}
}

// Ref returns a reference to this document
func (r *ReturnDocument) Ref() DocumentRef {
	return ReturnRef(r.ID)
}

func (r *ReturnDocument) applyHeader(h ReturnHeader) {
	r.StoreID = h.StoreID
	r.SupplierID = h.SupplierID
	r.SourceGRNID = h.SourceGRNID
	r.ReturnDate = h.ReturnDate
	r.Remark = h.Remark
}

// UpdateHeader replaces the header fields
func (r *ReturnDocument) UpdateHeader(h ReturnHeader) error {
	if err := r.EnsureEditable(); err != nil {
		return err
	}
	r.applyHeader(h)
	r.Touch()
	return nil
}

// SameStock reports whether both lines refer to the same product and batch
func (l ReturnLineItem) SameStock(other ReturnLineItem) bool {
	return l.ProductID == other.ProductID && l.BatchID == other.BatchID
}

// ReplaceLines swaps in a new line set. Lines whose ID matches an existing
// line keep that line's replaced quantity; a line that already has posted
// replacements can neither be removed nor shrunk below what was replaced,
// and it keeps its product and batch. Any other ID is replaced by a new one.
func (r *ReturnDocument) ReplaceLines(lines []ReturnLineItem) error {
	if err := r.EnsureEditable(); err != nil {
		return err
	}

	existing := make(map[uuid.UUID]*ReturnLineItem, len(r.Lines))
	for i := range r.Lines {
		existing[r.Lines[i].ID] = &r.Lines[i]
	}

	next := make([]ReturnLineItem, 0, len(lines))
	kept := make(map[uuid.UUID]bool, len(lines))
	for _, l := range lines {
		l.ReturnID = r.ID
		l.AlreadyReplacedQuantity = decimal.Zero
		if old, ok := existing[l.ID]; ok {
			if l.ReturnQuantity.LessThan(old.AlreadyReplacedQuantity) {
				return ErrConservationViolation.
					WithMessage("Line %s already has %s replaced and cannot be reduced to %s",
						l.ID, old.AlreadyReplacedQuantity.String(), l.ReturnQuantity.String()).
					WithDetail("return_line_id", l.ID.String()).
					WithDetail("already_replaced", old.AlreadyReplacedQuantity)
			}
			if old.AlreadyReplacedQuantity.IsPositive() && !old.SameStock(l) {
				return ErrLineStockChanged.
					WithMessage("Line %s already has %s replaced; its product and batch cannot change",
						l.ID, old.AlreadyReplacedQuantity.String()).
					WithDetail("return_line_id", l.ID.String()).
					WithDetail("already_replaced", old.AlreadyReplacedQuantity)
			}
			l.AlreadyReplacedQuantity = old.AlreadyReplacedQuantity
			kept[l.ID] = true
		} else {
			// ids not on this return are never trusted
			l.ID = uuid.New()
		}
		next = append(next, l)
	}

	for id, old := range existing {
		if !kept[id] && old.AlreadyReplacedQuantity.IsPositive() {
			return ErrConservationViolation.
				WithMessage("Line %s already has %s replaced and cannot be removed", id, old.AlreadyReplacedQuantity.String()).
				WithDetail("return_line_id", id.String()).
				WithDetail("already_replaced", old.AlreadyReplacedQuantity)
		}
	}

	r.Lines = next
	r.Touch()
	return nil
}

// FindLine returns the line with the given id
func (r *ReturnDocument) FindLine(lineID uuid.UUID) *ReturnLineItem {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i]
		}
	}
	return nil
}

// TotalAmount returns the sum of line amounts
func (r *ReturnDocument) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].Amount())
	}
	return total
}

// TotalPending returns the pending quantity summed over every line
func (r *ReturnDocument) TotalPending() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].PendingQuantity())
	}
	return total
}

// IsTotallyReplaced is true iff every line's pending quantity is zero
func (r *ReturnDocument) IsTotallyReplaced() bool {
	for i := range r.Lines {
		if !r.Lines[i].IsFullyReplaced() {
			return false
		}
	}
	return true
}

// Submit moves the return from Draft to Pending
func (r *ReturnDocument) Submit() error {
	if err := r.submit(time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewDocumentSubmittedEvent(r.Info()))
	return nil
}

// MarkPosted moves the return from Pending to Posted
func (r *ReturnDocument) MarkPosted(postedBy *uuid.UUID) error {
	if err := r.post(postedBy, time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewReturnPostedEvent(r))
	return nil
}

// Cancel moves a Draft or Pending return to Cancelled
func (r *ReturnDocument) Cancel(reason string) error {
	previous := r.Status
	if err := r.cancel(reason, time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewDocumentCancelledEvent(r.Info(), previous, reason))
	return nil
}
