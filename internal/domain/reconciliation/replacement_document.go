package reconciliation

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReplacementLineItem makes good part of one return line. It references
// the return line but never owns it.
type ReplacementLineItem struct {
	ID            uuid.UUID
	ReplacementID uuid.UUID
	ReturnLineID  uuid.UUID
	ProductID     uuid.UUID
	BatchID       uuid.UUID // batch the replacement goods are received into
	// Snapshot of the return line when it was selected. Pending is always
	// recomputed from the live return line before saving or posting.
	ReturnQuantity          decimal.Decimal
	AlreadyReplacedQuantity decimal.Decimal
	Quantity                decimal.Decimal
	Rate                    decimal.Decimal
}

// NewReplacementLineItem creates a replacement line seeded from a return line
func NewReplacementLineItem(returnLine *ReturnLineItem, batchID uuid.UUID, quantity, rate decimal.Decimal) ReplacementLineItem {
	if batchID == uuid.Nil {
		batchID = returnLine.BatchID
	}
	return ReplacementLineItem{
		ID:                      uuid.New(),
		ReturnLineID:            returnLine.ID,
		ProductID:               returnLine.ProductID,
		BatchID:                 batchID,
		ReturnQuantity:          returnLine.ReturnQuantity,
		AlreadyReplacedQuantity: returnLine.AlreadyReplacedQuantity,
		Quantity:                quantity,
		Rate:                    rate,
	}
}

// Amount returns Quantity * Rate
func (l *ReplacementLineItem) Amount() decimal.Decimal {
	return l.Quantity.Mul(l.Rate)
}

// SnapshotPending is the pending quantity as it was when the line was selected
func (l *ReplacementLineItem) SnapshotPending() decimal.Decimal {
	pending := l.ReturnQuantity.Sub(l.AlreadyReplacedQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// Refresh updates the snapshot from the live return line
func (l *ReplacementLineItem) Refresh(returnLine *ReturnLineItem) {
	l.ReturnQuantity = returnLine.ReturnQuantity
	l.AlreadyReplacedQuantity = returnLine.AlreadyReplacedQuantity
}

// ReplacementHeader holds the editable header fields of a replacement
type ReplacementHeader struct {
	ReplacementDate time.Time
	Remark          string
}

// ReplacementDocument records goods a supplier sent to make good a return
type ReplacementDocument struct {
	shared.BaseAggregateRoot
	Lifecycle
	DocumentNumber  string
	ReturnID        uuid.UUID
	SupplierID      uuid.UUID
	StoreID         uuid.UUID
	ReplacementDate time.Time
	Remark          string
	Lines           []ReplacementLineItem
}

// NewReplacementDocument creates a Draft replacement against a return.
// Store and supplier are taken from the return.
func NewReplacementDocument(documentNumber string, ret *ReturnDocument, header ReplacementHeader, lines []ReplacementLineItem) (*ReplacementDocument, error) {
	if documentNumber == "" {
		return nil, ErrMissingField.WithMessage("Document number cannot be empty").WithDetail("field", "document_number")
	}
	if ret == nil {
		return nil, ErrMissingField.WithMessage("A replacement must reference a return").WithDetail("field", "return_id")
	}
	r := &ReplacementDocument{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Lifecycle:         newLifecycle(),
		DocumentNumber:    documentNumber,
		ReturnID:          ret.ID,
		SupplierID:        ret.SupplierID,
		StoreID:           ret.StoreID,
		ReplacementDate:   header.ReplacementDate,
		Remark:            header.Remark,
	}
	r.setLines(lines)
	return r, nil
}

// Info identifies the document for events and responses
func (r *ReplacementDocument) Info() DocumentInfo {
	return DocumentInfo{DocumentType: DocumentTypeReplacement, DocumentID: r.ID, DocumentNumber: r.DocumentNumber}
}

// Ref returns a reference to this document
func (r *ReplacementDocument) Ref() DocumentRef {
	return ReplacementRef(r.ID)
}

func (r *ReplacementDocument) setLines(lines []ReplacementLineItem) {
	r.Lines = make([]ReplacementLineItem, 0, len(lines))
	for _, l := range lines {
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		l.ReplacementID = r.ID
		r.Lines = append(r.Lines, l)
	}
}

// UpdateHeader replaces the header fields
func (r *ReplacementDocument) UpdateHeader(h ReplacementHeader) error {
	if err := r.EnsureEditable(); err != nil {
		return err
	}
	r.ReplacementDate = h.ReplacementDate
	r.Remark = h.Remark
	r.Touch()
	return nil
}

// ReplaceLines swaps in a new line set
func (r *ReplacementDocument) ReplaceLines(lines []ReplacementLineItem) error {
	if err := r.EnsureEditable(); err != nil {
		return err
	}
	r.setLines(lines)
	r.Touch()
	return nil
}

// RefreshSnapshots updates every line's snapshot from the live return
func (r *ReplacementDocument) RefreshSnapshots(ret *ReturnDocument) {
	for i := range r.Lines {
		if rl := ret.FindLine(r.Lines[i].ReturnLineID); rl != nil {
			r.Lines[i].Refresh(rl)
		}
	}
}

// Commitments returns what this document claims against its return lines
func (r *ReplacementDocument) Commitments() []InFlightCommitment {
	out := make([]InFlightCommitment, len(r.Lines))
	for i, l := range r.Lines {
		out[i] = InFlightCommitment{
			DocumentID:     r.ID,
			DocumentNumber: r.DocumentNumber,
			ReturnLineID:   l.ReturnLineID,
			Quantity:       l.Quantity,
		}
	}
	return out
}

// QuantityByReturnLine sums quantities per referenced return line
func (r *ReplacementDocument) QuantityByReturnLine() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(r.Lines))
	for _, l := range r.Lines {
		out[l.ReturnLineID] = out[l.ReturnLineID].Add(l.Quantity)
	}
	return out
}

// TotalQuantity returns the sum of line quantities
func (r *ReplacementDocument) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].Quantity)
	}
	return total
}

// TotalAmount returns the sum of line amounts
func (r *ReplacementDocument) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].Amount())
	}
	return total
}

// Submit moves the replacement from Draft to Pending
func (r *ReplacementDocument) Submit() error {
	if err := r.submit(time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewDocumentSubmittedEvent(r.Info()))
	return nil
}

// MarkPosted moves the replacement from Pending to Posted
func (r *ReplacementDocument) MarkPosted(postedBy *uuid.UUID) error {
	if err := r.post(postedBy, time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewReplacementPostedEvent(r))
	return nil
}

// Cancel moves a Draft or Pending replacement to Cancelled
func (r *ReplacementDocument) Cancel(reason string) error {
	previous := r.Status
	if err := r.cancel(reason, time.Now()); err != nil {
		return err
	}
	r.Touch()
	r.AddDomainEvent(NewDocumentCancelledEvent(r.Info(), previous, reason))
	return nil
}
