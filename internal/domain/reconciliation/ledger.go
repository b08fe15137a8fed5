package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InFlightCommitment is quantity claimed against a return line by a
// replacement that is still Draft or Pending.
type InFlightCommitment struct {
	DocumentID     uuid.UUID
	DocumentNumber string
	ReturnLineID   uuid.UUID
	Quantity       decimal.Decimal
}

// QuantityLedger answers how much of a returned or sold quantity is still
// outstanding. It holds no state; every figure is derived from the lines.
type QuantityLedger struct{}

// NewQuantityLedger creates a QuantityLedger
func NewQuantityLedger() QuantityLedger {
	return QuantityLedger{}
}

// PendingQuantity is ReturnQuantity minus AlreadyReplacedQuantity, never negative
func (QuantityLedger) PendingQuantity(line *ReturnLineItem) decimal.Decimal {
	pending := line.ReturnQuantity.Sub(line.AlreadyReplacedQuantity)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// ValidateReplacementQuantity checks a requested replacement quantity
// against the live pending quantity of the line.
func (l QuantityLedger) ValidateReplacementQuantity(line *ReturnLineItem, requested decimal.Decimal) error {
	if !requested.IsPositive() {
		return ErrInvalidQuantity.
			WithMessage("Replacement quantity must be greater than zero").
			WithDetail("return_line_id", line.ID.String()).
			WithDetail("requested", requested)
	}
	pending := l.PendingQuantity(line)
	if requested.GreaterThan(pending) {
		return ErrQuantityExceedsPending.
			WithMessage("Replacement quantity %s exceeds pending quantity %s", requested.String(), pending.String()).
			WithDetail("return_line_id", line.ID.String()).
			WithDetail("requested", requested).
			WithDetail("pending", pending)
	}
	return nil
}

// AggregateAcrossReplacements returns AlreadyReplacedQuantity plus every
// in-flight commitment on the line. A total above ReturnQuantity is a
// CONSERVATION_VIOLATION. Commitments on other lines are ignored.
func (QuantityLedger) AggregateAcrossReplacements(line *ReturnLineItem, inFlight []InFlightCommitment) (decimal.Decimal, error) {
	total := line.AlreadyReplacedQuantity
	var documents []string
	for _, c := range inFlight {
		if c.ReturnLineID != line.ID {
			continue
		}
		total = total.Add(c.Quantity)
		if c.DocumentNumber != "" {
			documents = append(documents, c.DocumentNumber)
		}
	}
	if total.GreaterThan(line.ReturnQuantity) {
		return total, ErrConservationViolation.
			WithMessage("Replacements for line %s would total %s against a returned quantity of %s",
				line.ID, total.String(), line.ReturnQuantity.String()).
			WithDetail("return_line_id", line.ID.String()).
			WithDetail("return_quantity", line.ReturnQuantity).
			WithDetail("committed", total).
			WithDetail("documents", documents)
	}
	return total, nil
}

// ApplyPostedReplacement is the only mutator of AlreadyReplacedQuantity.
// It refuses to drive PendingQuantity below zero and leaves the line
// unchanged on error.
func (l QuantityLedger) ApplyPostedReplacement(line *ReturnLineItem, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return ErrInvalidQuantity.
			WithMessage("Posted replacement quantity must be greater than zero").
			WithDetail("return_line_id", line.ID.String())
	}
	pending := l.PendingQuantity(line)
	if qty.GreaterThan(pending) {
		return ErrConservationViolation.
			WithMessage("Posting %s would exceed pending quantity %s on line %s", qty.String(), pending.String(), line.ID).
			WithDetail("return_line_id", line.ID.String()).
			WithDetail("requested", qty).
			WithDetail("pending", pending)
	}
	line.AlreadyReplacedQuantity = line.AlreadyReplacedQuantity.Add(qty)
	return nil
}

// RemainingExchangeQuantity is the part of a sale line that can still be exchanged
func (QuantityLedger) RemainingExchangeQuantity(line *SaleLine) decimal.Decimal {
	return line.RemainingQuantity()
}

// ValidateExchangeQuantity checks a returned quantity against what remains
// on the sale line.
func (l QuantityLedger) ValidateExchangeQuantity(line *SaleLine, requested decimal.Decimal) error {
	if !requested.IsPositive() {
		return ErrInvalidQuantity.
			WithMessage("Exchange return quantity must be greater than zero").
			WithDetail("sale_line_id", line.ID.String())
	}
	remaining := l.RemainingExchangeQuantity(line)
	if requested.GreaterThan(remaining) {
		return ErrExceedsSoldQuantity.
			WithMessage("Exchange quantity %s exceeds remaining sold quantity %s", requested.String(), remaining.String()).
			WithDetail("sale_line_id", line.ID.String()).
			WithDetail("requested", requested).
			WithDetail("remaining", remaining)
	}
	return nil
}

// ApplyPostedExchange records qty as exchanged on the sale line
func (l QuantityLedger) ApplyPostedExchange(line *SaleLine, qty decimal.Decimal) error {
	remaining := l.RemainingExchangeQuantity(line)
	if !qty.IsPositive() || qty.GreaterThan(remaining) {
		return ErrConservationViolation.
			WithMessage("Posting %s would exceed remaining sold quantity %s on sale line %s", qty.String(), remaining.String(), line.ID).
			WithDetail("sale_line_id", line.ID.String()).
			WithDetail("requested", qty).
			WithDetail("remaining", remaining)
	}
	line.AlreadyExchangedQuantity = line.AlreadyExchangedQuantity.Add(qty)
	return nil
}
