package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationScale is the number of decimal places kept on allocation rows
const AllocationScale int32 = 4

// Settlement classifies the money owed after an exchange
type Settlement string

const (
	SettlementCustomerOwes Settlement = "CUSTOMER_OWES"
	SettlementRefundDue    Settlement = "REFUND_DUE"
	SettlementEven         Settlement = "EVEN"
)

// PricedQuantity is a quantity at a unit price
type PricedQuantity struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Amount returns Quantity * UnitPrice
func (p PricedQuantity) Amount() decimal.Decimal {
	return p.Quantity.Mul(p.UnitPrice)
}

// Differential is the money side of an exchange. It is always derived from
// the item lists and never stored on its own.
type Differential struct {
	TotalReturn decimal.Decimal `json:"total_return"`
	TotalNew    decimal.Decimal `json:"total_new"`
	Difference  decimal.Decimal `json:"difference"`
	Settlement  Settlement      `json:"settlement"`
}

// AmountDue is what the customer pays, zero on a refund or even exchange
func (d Differential) AmountDue() decimal.Decimal {
	if d.Difference.IsPositive() {
		return d.Difference
	}
	return decimal.Zero
}

// RefundDue is what the store refunds, zero when the customer owes or it is even
func (d Differential) RefundDue() decimal.Decimal {
	if d.Difference.IsNegative() {
		return d.Difference.Neg()
	}
	return decimal.Zero
}

// ExchangeAllocation attributes part of one new item, and the matching part
// of one returned item, to a (returned, new) pair. Rows are informational:
// they reconcile to the top-level totals but totals are never computed
// from them.
type ExchangeAllocation struct {
	ReturnItemID    uuid.UUID       `json:"return_item_id"`
	NewItemID       uuid.UUID       `json:"new_item_id"`
	Share           decimal.Decimal `json:"share"`
	ReturnAmount    decimal.Decimal `json:"return_amount"`
	NewAmount       decimal.Decimal `json:"new_amount"`
	DifferenceShare decimal.Decimal `json:"difference_share"`
}

// ExchangeDifferentialCalculator computes the money owed either way on an exchange
type ExchangeDifferentialCalculator struct{}

// NewExchangeDifferentialCalculator creates an ExchangeDifferentialCalculator
func NewExchangeDifferentialCalculator() ExchangeDifferentialCalculator {
	return ExchangeDifferentialCalculator{}
}

// Compute returns totalReturn = Σ returnQty*price, totalNew = Σ newQty*price
// and difference = totalNew - totalReturn with its settlement class.
func (ExchangeDifferentialCalculator) Compute(returnItems, newItems []PricedQuantity) Differential {
	totalReturn := decimal.Zero
	for _, item := range returnItems {
		totalReturn = totalReturn.Add(item.Amount())
	}
	totalNew := decimal.Zero
	for _, item := range newItems {
		totalNew = totalNew.Add(item.Amount())
	}
	difference := totalNew.Sub(totalReturn)
	return Differential{
		TotalReturn: totalReturn,
		TotalNew:    totalNew,
		Difference:  difference,
		Settlement:  classify(difference),
	}
}

func classify(difference decimal.Decimal) Settlement {
	switch {
	case difference.IsPositive():
		return SettlementCustomerOwes
	case difference.IsNegative():
		return SettlementRefundDue
	default:
		return SettlementEven
	}
}

// AllocateLines produces one row per (returned item × new item) pair.
// Each new item's amount is spread over the returned items by their share
// of the total return amount, and each returned item's amount is spread
// over the new items by their share of the total new amount. Rounding
// residue lands on the last row of each spread so that rows sum exactly
// to the item amounts. With a zero total the spread is even.
func (ExchangeDifferentialCalculator) AllocateLines(returnItems []ExchangeReturnItem, newItems []ExchangeNewItem) []ExchangeAllocation {
	if len(returnItems) == 0 || len(newItems) == 0 {
		return nil
	}

	returnAmounts := make([]decimal.Decimal, len(returnItems))
	for i := range returnItems {
		returnAmounts[i] = returnItems[i].Amount()
	}
	newAmounts := make([]decimal.Decimal, len(newItems))
	for j := range newItems {
		newAmounts[j] = newItems[j].Amount()
	}

	// returnShares[i] is returned item i's share of the total return amount
	returnShares := shares(returnAmounts)
	newShares := shares(newAmounts)

	rows := make([]ExchangeAllocation, len(returnItems)*len(newItems))
	idx := func(i, j int) int { return i*len(newItems) + j }

	// New amount: for each new item j, spread over returned items i
	for j := range newItems {
		allocated := decimal.Zero
		for i := range returnItems {
			var part decimal.Decimal
			if i == len(returnItems)-1 {
				part = newAmounts[j].Sub(allocated)
			} else {
				part = newAmounts[j].Mul(returnShares[i]).Round(AllocationScale)
				allocated = allocated.Add(part)
			}
			rows[idx(i, j)].NewAmount = part
		}
	}

	// Return amount: for each returned item i, spread over new items j
	for i := range returnItems {
		allocated := decimal.Zero
		for j := range newItems {
			var part decimal.Decimal
			if j == len(newItems)-1 {
				part = returnAmounts[i].Sub(allocated)
			} else {
				part = returnAmounts[i].Mul(newShares[j]).Round(AllocationScale)
				allocated = allocated.Add(part)
			}
			row := &rows[idx(i, j)]
			row.ReturnItemID = returnItems[i].ID
			row.NewItemID = newItems[j].ID
			row.Share = returnShares[i].Mul(newShares[j]).Round(AllocationScale)
			row.ReturnAmount = part
		}
	}

	for k := range rows {
		rows[k].DifferenceShare = rows[k].NewAmount.Sub(rows[k].ReturnAmount)
	}
	return rows
}

// shares returns each amount's fraction of the total, or an even split
// when the total is zero.
func shares(amounts []decimal.Decimal) []decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	out := make([]decimal.Decimal, len(amounts))
	if total.IsZero() {
		even := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(amounts))))
		for i := range out {
			out[i] = even
		}
		return out
	}
	for i, a := range amounts {
		out[i] = a.Div(total)
	}
	return out
}
