package reconciliation

import (
	"testing"
	"time"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func assertCode(t *testing.T, err error, code string) *shared.DomainError {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected a domain error, got %T: %v", err, err)
	assert.Equal(t, code, de.Code)
	return de
}

func violationCodes(t *testing.T, err error) []string {
	t.Helper()
	de, ok := shared.AsDomainError(err)
	require.True(t, ok)
	raw, ok := de.Detail(DetailViolations)
	require.True(t, ok, "error carries no violations")
	list := raw.([]Violation)
	codes := make([]string, len(list))
	for i, v := range list {
		codes[i] = v.Code
	}
	return codes
}

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

// newPendingReturn builds a Pending return with one line of the given quantity
func newPendingReturn(t *testing.T, qty string) *ReturnDocument {
	t.Helper()
	line := NewReturnLineItem(uuid.New(), uuid.New(), "B-001", nil, dec(qty), dec("12.50"))
	r, err := NewReturnDocument("RT-2026-00001", ReturnHeader{
		StoreID:    uuid.New(),
		SupplierID: uuid.New(),
		ReturnDate: testNow.Add(-24 * time.Hour),
	}, []ReturnLineItem{line})
	require.NoError(t, err)
	require.NoError(t, r.Submit())
	r.ClearDomainEvents()
	return r
}

func newReplacementFor(t *testing.T, ret *ReturnDocument, qty, rate string) *ReplacementDocument {
	t.Helper()
	line := NewReplacementLineItem(&ret.Lines[0], uuid.Nil, dec(qty), dec(rate))
	rp, err := NewReplacementDocument("RP-2026-00001", ret, ReplacementHeader{ReplacementDate: testNow}, []ReplacementLineItem{line})
	require.NoError(t, err)
	return rp
}

func newSale(lines ...SaleLine) *SaleTransaction {
	sale := &SaleTransaction{
		ID:       uuid.New(),
		Number:   "S-1001",
		StoreID:  uuid.New(),
		SaleDate: testNow.Add(-48 * time.Hour),
	}
	for _, l := range lines {
		l.SaleID = sale.ID
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		if l.ProductID == uuid.Nil {
			l.ProductID = uuid.New()
		}
		if l.BatchID == uuid.Nil {
			l.BatchID = uuid.New()
		}
		sale.Lines = append(sale.Lines, l)
	}
	return sale
}
