package reconciliation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnDocument(t *testing.T) {
	t.Run("starts as draft with nothing replaced", func(t *testing.T) {
		line := NewReturnLineItem(uuid.New(), uuid.New(), "B-1", nil, dec("5"), dec("2"))
		line.AlreadyReplacedQuantity = dec("3") // ignored on creation
		r, err := NewReturnDocument("RT-2026-00001", ReturnHeader{StoreID: uuid.New(), SupplierID: uuid.New(), ReturnDate: testNow}, []ReturnLineItem{line})
		require.NoError(t, err)

		assert.Equal(t, StatusDraft, r.Status)
		assert.Equal(t, 1, r.Version)
		require.Len(t, r.Lines, 1)
		assert.Equal(t, r.ID, r.Lines[0].ReturnID)
		assertDecimal(t, "0", r.Lines[0].AlreadyReplacedQuantity)
		assertDecimal(t, "10", r.TotalAmount())
		assert.False(t, r.IsTotallyReplaced())
	})

	t.Run("document number required", func(t *testing.T) {
		_, err := NewReturnDocument("", ReturnHeader{}, nil)
		assertCode(t, err, "MISSING_FIELD")
	})
}

func TestReturnDocument_Lifecycle(t *testing.T) {
	r := newPendingReturn(t, "10")
	assert.True(t, r.IsPending())
	assert.NotNil(t, r.SubmittedAt)

	postedBy := uuid.New()
	require.NoError(t, r.MarkPosted(&postedBy))
	assert.True(t, r.IsPosted())
	assert.Equal(t, &postedBy, r.PostedBy)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	posted, ok := events[0].(*ReturnPostedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeReturnPosted, posted.EventType())
	assert.Equal(t, AggregateTypeReturn, posted.AggregateType())
	assert.Equal(t, r.Ref(), posted.Ref())
	assertDecimal(t, "125", posted.TotalAmount)

	assertCode(t, r.Cancel("late"), "DOCUMENT_IMMUTABLE")
	assertCode(t, r.Submit(), "DOCUMENT_IMMUTABLE")
}

func TestReturnDocument_Immutability(t *testing.T) {
	for _, terminal := range []string{"posted", "cancelled"} {
		t.Run(terminal, func(t *testing.T) {
			r := newPendingReturn(t, "10")
			if terminal == "posted" {
				require.NoError(t, r.MarkPosted(nil))
			} else {
				require.NoError(t, r.Cancel("supplier refused"))
			}
			before := *r
			beforeLines := append([]ReturnLineItem(nil), r.Lines...)

			assertCode(t, r.UpdateHeader(ReturnHeader{StoreID: uuid.New(), SupplierID: uuid.New(), ReturnDate: testNow}), "DOCUMENT_IMMUTABLE")
			assertCode(t, r.ReplaceLines(nil), "DOCUMENT_IMMUTABLE")

			assert.Equal(t, before.StoreID, r.StoreID)
			assert.Equal(t, before.SupplierID, r.SupplierID)
			assert.Equal(t, before.Status, r.Status)
			assert.Equal(t, beforeLines, r.Lines)
		})
	}
}

func TestReturnDocument_Cancel(t *testing.T) {
	r := newPendingReturn(t, "10")
	require.NoError(t, r.Cancel("wrong supplier"))
	assert.True(t, r.IsCancelled())
	assert.Equal(t, "wrong supplier", r.CancelReason)

	events := r.GetDomainEvents()
	require.Len(t, events, 1)
	cancelled := events[0].(*DocumentCancelledEvent)
	assert.Equal(t, StatusPending, cancelled.PreviousStatus)
}

func TestReturnDocument_ReplaceLines(t *testing.T) {
	r := newPendingReturn(t, "10")
	lineID := r.Lines[0].ID
	require.NoError(t, NewQuantityLedger().ApplyPostedReplacement(&r.Lines[0], dec("4")))

	t.Run("keeps replaced quantity of matching lines", func(t *testing.T) {
		edited := r.Lines[0]
		edited.ReturnQuantity = dec("8")
		edited.AlreadyReplacedQuantity = dec("0")
		extra := NewReturnLineItem(uuid.New(), uuid.New(), "B-2", nil, dec("1"), dec("1"))

		require.NoError(t, r.ReplaceLines([]ReturnLineItem{edited, extra}))
		require.Len(t, r.Lines, 2)
		assertDecimal(t, "4", r.FindLine(lineID).AlreadyReplacedQuantity)
		assertDecimal(t, "4", r.FindLine(lineID).PendingQuantity())
	})

	t.Run("cannot shrink below replaced", func(t *testing.T) {
		edited := *r.FindLine(lineID)
		edited.ReturnQuantity = dec("3")
		assertCode(t, r.ReplaceLines([]ReturnLineItem{edited}), "CONSERVATION_VIOLATION")
	})

	t.Run("cannot drop a replaced line", func(t *testing.T) {
		other := NewReturnLineItem(uuid.New(), uuid.New(), "B-3", nil, dec("1"), dec("1"))
		assertCode(t, r.ReplaceLines([]ReturnLineItem{other}), "CONSERVATION_VIOLATION")
		assert.NotNil(t, r.FindLine(lineID))
	})

	t.Run("replaced line keeps its product and batch", func(t *testing.T) {
		before := *r.FindLine(lineID)

		moved := before
		moved.ProductID = uuid.New()
		de := assertCode(t, r.ReplaceLines([]ReturnLineItem{moved}), "LINE_STOCK_CHANGED")
		id, _ := de.Detail("return_line_id")
		assert.Equal(t, lineID.String(), id)

		moved = before
		moved.BatchID = uuid.New()
		assertCode(t, r.ReplaceLines([]ReturnLineItem{moved}), "LINE_STOCK_CHANGED")

		assert.Equal(t, before.ProductID, r.FindLine(lineID).ProductID)
		assert.Equal(t, before.BatchID, r.FindLine(lineID).BatchID)
	})

	t.Run("foreign line ids are replaced", func(t *testing.T) {
		kept := *r.FindLine(lineID)
		foreign := uuid.New()
		extra := NewReturnLineItem(uuid.New(), uuid.New(), "B-4", nil, dec("1"), dec("1"))
		extra.ID = foreign
		extra.AlreadyReplacedQuantity = dec("1")

		require.NoError(t, r.ReplaceLines([]ReturnLineItem{kept, extra}))
		require.Len(t, r.Lines, 2)
		assert.Nil(t, r.FindLine(foreign))
		assert.NotEqual(t, foreign, r.Lines[1].ID)
		assert.NotEqual(t, uuid.Nil, r.Lines[1].ID)
		assertDecimal(t, "0", r.Lines[1].AlreadyReplacedQuantity)
	})
}

func TestReturnDocument_ReplaceLines_UnreplacedLineMayChangeStock(t *testing.T) {
	r := newPendingReturn(t, "10")
	edited := r.Lines[0]
	edited.ProductID = uuid.New()
	edited.BatchID = uuid.New()

	require.NoError(t, r.ReplaceLines([]ReturnLineItem{edited}))
	assert.Equal(t, edited.ID, r.Lines[0].ID)
	assert.Equal(t, edited.BatchID, r.Lines[0].BatchID)
}

func TestReturnDocument_IsTotallyReplaced(t *testing.T) {
	r := newPendingReturn(t, "2")
	extra := NewReturnLineItem(uuid.New(), uuid.New(), "B-9", nil, dec("1"), dec("1"))
	require.NoError(t, r.ReplaceLines(append(r.Lines, extra)))

	ledger := NewQuantityLedger()
	require.NoError(t, ledger.ApplyPostedReplacement(&r.Lines[0], dec("2")))
	assert.False(t, r.IsTotallyReplaced())
	assertDecimal(t, "1", r.TotalPending())

	require.NoError(t, ledger.ApplyPostedReplacement(&r.Lines[1], dec("1")))
	assert.True(t, r.IsTotallyReplaced())
}

func TestReturnLineItem_ExpiryKept(t *testing.T) {
	expiry := time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC)
	line := NewReturnLineItem(uuid.New(), uuid.New(), "B-7", &expiry, dec("1"), dec("1"))
	assert.Equal(t, &expiry, line.ExpiryDate)
}
