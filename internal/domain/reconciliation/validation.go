package reconciliation

import (
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
)

// ValidationPhase is the point in the lifecycle a document is validated at
type ValidationPhase int

const (
	// PhaseSave covers create, save-draft and submit
	PhaseSave ValidationPhase = iota
	// PhasePost re-validates against live quantities right before posting.
	// A quantity that no longer fits is then a conservation violation,
	// because other documents consumed it since the document was saved.
	PhasePost
)

func (p ValidationPhase) String() string {
	if p == PhasePost {
		return "post"
	}
	return "save"
}

// ValidateReturn checks the structural rules of a return. grn is the
// source goods-received note, required when the return names one.
func ValidateReturn(r *ReturnDocument, grn *GoodsReceivedNote, now time.Time) error {
	var v Violations

	if r.StoreID == uuid.Nil {
		v.Add(missing("store_id", "Store is required"))
	}
	if r.SupplierID == uuid.Nil {
		v.Add(missing("supplier_id", "Supplier is required"))
	}
	checkDate(&v, "return_date", r.ReturnDate, now)

	var source *GoodsReceivedNote
	if r.SourceGRNID != nil {
		switch {
		case grn == nil || grn.ID != *r.SourceGRNID:
			v.Add(ErrIneligibleSource.
				WithMessage("Goods-received note %s not found", *r.SourceGRNID).
				WithDetail("grn_id", r.SourceGRNID.String()))
		case !NewEligibilityFilter().IsGRNEligibleForReturn(grn, r.StoreID, r.SupplierID):
			v.Add(ErrIneligibleSource.
				WithMessage("Goods-received note %s must be posted for the same store and supplier", grn.Number).
				WithDetail("grn_id", grn.ID.String()).
				WithDetail("grn_status", string(grn.Status)))
		default:
			source = grn
		}
	}

	if len(r.Lines) == 0 {
		v.Add(ErrNoLines.WithMessage("A return needs at least one line"))
	}

	type lineKey struct{ product, batch uuid.UUID }
	seen := make(map[lineKey]int, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		n := i + 1
		if l.ProductID == uuid.Nil {
			v.AddLine(n, missing("product_id", "Product is required"))
		}
		if l.BatchID == uuid.Nil {
			v.AddLine(n, missing("batch_id", "Batch is required"))
		}
		key := lineKey{l.ProductID, l.BatchID}
		if first, dup := seen[key]; dup {
			v.AddLine(n, ErrDuplicateLine.
				WithMessage("Line %d repeats the product and batch of line %d", n, first).
				WithDetail("product_id", l.ProductID.String()).
				WithDetail("batch_id", l.BatchID.String()))
		} else {
			seen[key] = n
		}
		if !l.ReturnQuantity.IsPositive() {
			v.AddLine(n, ErrInvalidQuantity.
				WithMessage("Return quantity on line %d must be greater than zero", n).
				WithDetail("return_quantity", l.ReturnQuantity))
		}
		if l.CostPrice.IsNegative() {
			v.AddLine(n, ErrInvalidPrice.WithMessage("Cost price on line %d cannot be negative", n))
		}

		if source == nil {
			continue
		}
		var grnLine *GRNLine
		if l.SourceGRNLineID != nil {
			grnLine = source.FindLineByID(*l.SourceGRNLineID)
		} else {
			grnLine = source.FindLine(l.ProductID, l.BatchID)
		}
		if grnLine == nil {
			v.AddLine(n, ErrUnknownLine.
				WithMessage("Line %d is not on goods-received note %s", n, source.Number).
				WithDetail("product_id", l.ProductID.String()))
			continue
		}
		if l.ReturnQuantity.GreaterThan(grnLine.ReceivedQuantity) {
			v.AddLine(n, ErrExceedsReceivedQuantity.
				WithMessage("Line %d returns %s but only %s were received", n, l.ReturnQuantity.String(), grnLine.ReceivedQuantity.String()).
				WithDetail("received_quantity", grnLine.ReceivedQuantity).
				WithDetail("return_quantity", l.ReturnQuantity))
		}
	}

	return v.Err()
}

// ReplacementCheck is the live state a replacement is validated against
type ReplacementCheck struct {
	// Return is the referenced return as currently stored
	Return *ReturnDocument
	// InFlight are Draft/Pending commitments of other replacements on the
	// same return. Commitments of the document itself are ignored.
	InFlight []InFlightCommitment
	Phase    ValidationPhase
	Now      time.Time
}

// ValidateReplacement checks the structural rules of a replacement and,
// once every line is individually valid, the conservation rule across all
// in-flight replacements of the same return.
func ValidateReplacement(r *ReplacementDocument, check ReplacementCheck) error {
	var v Violations
	ledger := NewQuantityLedger()

	ret := check.Return
	if ret == nil || ret.ID != r.ReturnID {
		v.Add(ErrIneligibleSource.
			WithMessage("Return %s not found", r.ReturnID).
			WithDetail("return_id", r.ReturnID.String()))
		return v.Err()
	}
	if !ret.IsPending() && !ret.IsPosted() {
		v.Add(ErrIneligibleSource.
			WithMessage("Return %s is %s and cannot be replaced", ret.DocumentNumber, ret.Status).
			WithDetail("return_id", ret.ID.String()).
			WithDetail("return_status", ret.Status.String()))
	}
	checkDate(&v, "replacement_date", r.ReplacementDate, check.Now)

	if len(r.Lines) == 0 {
		v.Add(ErrNoLines.WithMessage("A replacement needs at least one line with pending quantity"))
	}

	seen := make(map[uuid.UUID]int, len(r.Lines))
	for i := range r.Lines {
		l := &r.Lines[i]
		n := i + 1
		rl := ret.FindLine(l.ReturnLineID)
		if rl == nil {
			v.AddLine(n, ErrUnknownLine.
				WithMessage("Line %d references a line that is not on return %s", n, ret.DocumentNumber).
				WithDetail("return_line_id", l.ReturnLineID.String()))
			continue
		}
		if first, dup := seen[l.ReturnLineID]; dup {
			v.AddLine(n, ErrDuplicateLine.
				WithMessage("Line %d replaces the same return line as line %d", n, first).
				WithDetail("return_line_id", l.ReturnLineID.String()))
		} else {
			seen[l.ReturnLineID] = n
		}
		if l.BatchID == uuid.Nil {
			v.AddLine(n, missing("batch_id", "Receiving batch is required"))
		}
		if !l.Rate.IsPositive() {
			v.AddLine(n, ErrInvalidRate.
				WithMessage("Rate on line %d must be greater than zero", n).
				WithDetail("rate", l.Rate))
		}
		if err := ledger.ValidateReplacementQuantity(rl, l.Quantity); err != nil {
			v.AddLine(n, escalateAtPost(err, check.Phase))
		}
	}

	if !v.Empty() {
		return v.Err()
	}

	others := make([]InFlightCommitment, 0, len(check.InFlight)+len(r.Lines))
	for _, c := range check.InFlight {
		if c.DocumentID != r.ID {
			others = append(others, c)
		}
	}
	others = append(others, r.Commitments()...)
	for i := range r.Lines {
		rl := ret.FindLine(r.Lines[i].ReturnLineID)
		if _, err := ledger.AggregateAcrossReplacements(rl, others); err != nil {
			v.AddLine(i+1, asDomainError(err))
		}
	}
	return v.Err()
}

// ValidateExchange checks the structural rules of an exchange against the
// live sale it was raised from.
func ValidateExchange(e *ExchangeDocument, sale *SaleTransaction, phase ValidationPhase, now time.Time) error {
	var v Violations
	ledger := NewQuantityLedger()

	if sale == nil || sale.ID != e.SaleID {
		v.Add(ErrIneligibleSource.
			WithMessage("Sale %s not found", e.SaleID).
			WithDetail("sale_id", e.SaleID.String()))
		return v.Err()
	}
	checkDate(&v, "exchange_date", e.ExchangeDate, now)

	if len(e.ReturnItems) == 0 {
		v.Add(ErrNoLines.WithMessage("An exchange needs at least one returned item"))
	}
	seen := make(map[uuid.UUID]int, len(e.ReturnItems))
	for i := range e.ReturnItems {
		item := &e.ReturnItems[i]
		n := i + 1
		line := sale.FindLine(item.SaleLineID)
		if line == nil {
			v.AddLine(n, ErrUnknownLine.
				WithMessage("Returned item %d is not on sale %s", n, sale.Number).
				WithDetail("sale_line_id", item.SaleLineID.String()))
			continue
		}
		if first, dup := seen[item.SaleLineID]; dup {
			v.AddLine(n, ErrDuplicateLine.
				WithMessage("Returned item %d repeats the sale line of item %d", n, first).
				WithDetail("sale_line_id", item.SaleLineID.String()))
		} else {
			seen[item.SaleLineID] = n
		}
		if !item.Reason.IsValid() {
			v.AddLine(n, ErrInvalidReason.
				WithMessage("Returned item %d has unknown reason %q", n, item.Reason).
				WithDetail("reason", string(item.Reason)))
		}
		if item.UnitPrice.IsNegative() {
			v.AddLine(n, ErrInvalidPrice.WithMessage("Unit price on returned item %d cannot be negative", n))
		}
		if err := ledger.ValidateExchangeQuantity(line, item.ReturnQuantity); err != nil {
			v.AddLine(n, escalateAtPost(err, phase))
		}
	}

	if len(e.NewItems) == 0 {
		v.Add(ErrNoLines.WithMessage("An exchange needs at least one new item"))
	}
	for i := range e.NewItems {
		item := &e.NewItems[i]
		n := i + 1
		if item.ProductID == uuid.Nil {
			v.AddLine(n, missing("product_id", "Product is required on new items"))
		}
		if item.BatchID == uuid.Nil {
			v.AddLine(n, missing("batch_id", "Batch is required on new items"))
		}
		if !item.Quantity.IsPositive() {
			v.AddLine(n, ErrInvalidQuantity.
				WithMessage("Quantity on new item %d must be greater than zero", n).
				WithDetail("quantity", item.Quantity))
		}
		if item.UnitPrice.IsNegative() {
			v.AddLine(n, ErrInvalidPrice.WithMessage("Unit price on new item %d cannot be negative", n))
		}
	}

	return v.Err()
}

func missing(field, message string) *shared.DomainError {
	return ErrMissingField.WithMessage("%s", message).WithDetail("field", field)
}

func checkDate(v *Violations, field string, date, now time.Time) {
	if date.IsZero() {
		v.Add(missing(field, "Document date is required"))
		return
	}
	if isFutureDate(date, now) {
		v.Add(ErrFutureDate.
			WithMessage("Document date %s is in the future", date.Format("2006-01-02")).
			WithDetail("field", field))
	}
}

// isFutureDate compares calendar days in now's location
func isFutureDate(date, now time.Time) bool {
	d := date.In(now.Location())
	dy, dm, dd := d.Date()
	ny, nm, nd := now.Date()
	return time.Date(dy, dm, dd, 0, 0, 0, 0, now.Location()).
		After(time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location()))
}

// escalateAtPost turns a quantity that no longer fits into a conservation
// violation when it is found at post time.
func escalateAtPost(err error, phase ValidationPhase) *shared.DomainError {
	de := asDomainError(err)
	if phase != PhasePost {
		return de
	}
	if de.Code == ErrQuantityExceedsPending.Code || de.Code == ErrExceedsSoldQuantity.Code {
		escalated := ErrConservationViolation.WithMessage("%s", de.Message)
		for k, val := range de.Details {
			escalated = escalated.WithDetail(k, val)
		}
		return escalated
	}
	return de
}

func asDomainError(err error) *shared.DomainError {
	if de, ok := shared.AsDomainError(err); ok {
		return de
	}
	return shared.ErrInvalidInput.WithMessage("%s", err.Error())
}
