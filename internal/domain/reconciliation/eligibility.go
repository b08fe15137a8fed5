package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EligibleSaleLine is a sale line that can still seed an exchange
type EligibleSaleLine struct {
	SaleLine
	Remaining decimal.Decimal
}

// EligibilityFilter decides which source documents can seed a new document
type EligibilityFilter struct{}

// NewEligibilityFilter creates an EligibilityFilter
func NewEligibilityFilter() EligibilityFilter {
	return EligibilityFilter{}
}

// IsReturnEligibleForReplacement reports whether a replacement may be raised against r
func (EligibilityFilter) IsReturnEligibleForReplacement(r *ReturnDocument) bool {
	return (r.IsPending() || r.IsPosted()) && !r.IsTotallyReplaced()
}

// EligibleReturnsForReplacement keeps returns that are Pending or Posted
// and still have pending quantity.
func (f EligibilityFilter) EligibleReturnsForReplacement(returns []*ReturnDocument) []*ReturnDocument {
	out := make([]*ReturnDocument, 0, len(returns))
	for _, r := range returns {
		if f.IsReturnEligibleForReplacement(r) {
			out = append(out, r)
		}
	}
	return out
}

// IsGRNEligibleForReturn reports whether a return for store and supplier may be raised against grn
func (EligibilityFilter) IsGRNEligibleForReturn(grn *GoodsReceivedNote, storeID, supplierID uuid.UUID) bool {
	return grn.IsPosted() && grn.StoreID == storeID && grn.SupplierID == supplierID
}

// EligibleGRNsForReturn keeps posted notes for the given store and supplier
func (f EligibilityFilter) EligibleGRNsForReturn(grns []*GoodsReceivedNote, storeID, supplierID uuid.UUID) []*GoodsReceivedNote {
	out := make([]*GoodsReceivedNote, 0, len(grns))
	for _, g := range grns {
		if f.IsGRNEligibleForReturn(g, storeID, supplierID) {
			out = append(out, g)
		}
	}
	return out
}

// EligibleSaleLinesForExchange returns sale lines with a positive original
// quantity that have not been fully exchanged, each with what remains.
func (EligibilityFilter) EligibleSaleLinesForExchange(sale *SaleTransaction) []EligibleSaleLine {
	out := make([]EligibleSaleLine, 0, len(sale.Lines))
	for i := range sale.Lines {
		line := &sale.Lines[i]
		if !line.OriginalQuantity.IsPositive() {
			continue
		}
		remaining := line.RemainingQuantity()
		if !remaining.IsPositive() {
			continue
		}
		out = append(out, EligibleSaleLine{SaleLine: *line, Remaining: remaining})
	}
	return out
}
