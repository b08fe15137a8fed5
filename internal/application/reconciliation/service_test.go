package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/erp/reconciliation/internal/domain/inventory"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordPosted(ctx context.Context, documentType string, duration time.Duration) {
	m.Called(ctx, documentType, duration)
}

func (m *MockMetrics) RecordPostRejected(ctx context.Context, documentType, code string) {
	m.Called(ctx, documentType, code)
}

func (m *MockMetrics) RecordShortfall(ctx context.Context, batchNumber string, shortfall decimal.Decimal) {
	m.Called(ctx, batchNumber, shortfall)
}

func (m *MockMetrics) RecordTransition(ctx context.Context, documentType, to string) {
	m.Called(ctx, documentType, to)
}

func newMockMetrics() *MockMetrics {
	m := new(MockMetrics)
	m.On("RecordPosted", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordPostRejected", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordShortfall", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything).Maybe()
	return m
}

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

type fixture struct {
	store   *memStore
	svc     *Service
	metrics *MockMetrics

	storeID    uuid.UUID
	supplierID uuid.UUID
	productID  uuid.UUID
	batch      *inventory.StockBatch
}

func newFixture(t *testing.T, opts ...ServiceOption) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store:      store,
		metrics:    newMockMetrics(),
		storeID:    uuid.New(),
		supplierID: uuid.New(),
		productID:  uuid.New(),
	}
	store.stores[f.storeID] = &reconciliation.Store{ID: f.storeID, Code: "S01", Name: "Main Street"}
	store.suppliers[f.supplierID] = &reconciliation.Supplier{ID: f.supplierID, Code: "SUP01", Name: "Acme Pharma"}
	store.products[f.productID] = &reconciliation.Product{ID: f.productID, Code: "P01", Name: "Paracetamol 500mg", Unit: "box"}

	f.batch = inventory.NewStockBatch(f.storeID, f.productID, "B-001", nil, dec("20"), dec("12.50"))
	store.batches[f.batch.ID] = f.batch

	repos := store.repositories()
	opts = append([]ServiceOption{WithLogger(zap.NewNop()), WithMetrics(f.metrics)}, opts...)
	f.svc = NewService(NewNoOpTransactionScope(repos), repos, &memReference{store}, opts...)
	return f
}

func (f *fixture) returnRequest(qty string) ReturnRequest {
	return ReturnRequest{
		StoreID:    f.storeID,
		SupplierID: f.supplierID,
		Remark:     "damaged in transit",
		Lines: []ReturnLineRequest{{
			ProductID:      f.productID,
			BatchID:        f.batch.ID,
			BatchNumber:    f.batch.BatchNumber,
			ReturnQuantity: dec(qty),
			CostPrice:      dec("12.50"),
		}},
	}
}

// pendingReturn creates and submits a return of qty on the fixture batch
func (f *fixture) pendingReturn(t *testing.T, qty string) *ReturnResponse {
	t.Helper()
	ctx := context.Background()
	ret, err := f.svc.CreateReturn(ctx, f.returnRequest(qty))
	require.NoError(t, err)
	resp, err := f.svc.Submit(ctx, reconciliation.ReturnRef(ret.ID))
	require.NoError(t, err)
	return resp.Return
}

func (f *fixture) replacement(t *testing.T, ret *ReturnResponse, qty string) (*ReplacementResponse, error) {
	t.Helper()
	return f.svc.CreateReplacement(context.Background(), ReplacementRequest{
		ReturnID: ret.ID,
		Lines: []ReplacementLineRequest{{
			ReturnLineID: ret.Lines[0].ID,
			Quantity:     dec(qty),
			Rate:         dec("12.50"),
		}},
	})
}

func (f *fixture) postReplacement(t *testing.T, ret *ReturnResponse, qty string) *DocumentResponse {
	t.Helper()
	rp, err := f.replacement(t, ret, qty)
	require.NoError(t, err)
	resp, err := f.svc.Post(context.Background(), reconciliation.ReplacementRef(rp.ID), PostRequest{})
	require.NoError(t, err)
	return resp
}

// ==================== Returns ====================

func TestService_ReturnLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	postedBy := uuid.New()

	ret, err := f.svc.CreateReturn(ctx, f.returnRequest("10"))
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusDraft), ret.Status)
	assert.Regexp(t, `^RT-\d{4}-00001$`, ret.DocumentNumber)
	assert.Equal(t, "Paracetamol 500mg", ret.Lines[0].ProductName)
	assertDecimal(t, "10", ret.Lines[0].PendingQuantity)

	posted, err := f.svc.Post(ctx, reconciliation.ReturnRef(ret.ID), PostRequest{PostedBy: &postedBy})
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusPosted), posted.Status())
	assert.False(t, posted.AlreadyPosted)
	require.NotNil(t, posted.Posting)
	assert.Equal(t, &postedBy, posted.Posting.PostedBy)
	assert.Equal(t, []string{
		reconciliation.EventTypeDocumentSubmitted,
		reconciliation.EventTypeReturnPosted,
	}, f.store.eventTypes())

	again, err := f.svc.Post(ctx, reconciliation.ReturnRef(ret.ID), PostRequest{})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPosted)
	assert.Equal(t, posted.Posting.PostedAt, again.Posting.PostedAt)
	assert.Len(t, f.store.eventTypes(), 2, "re-posting must not raise events")

	_, err = f.svc.Cancel(ctx, reconciliation.ReturnRef(ret.ID), CancelRequest{Reason: "too late"})
	assertCode(t, err, reconciliation.ErrDocumentImmutable.Code)

	_, err = f.svc.SaveReturn(ctx, ret.ID, f.returnRequest("5"))
	assertCode(t, err, reconciliation.ErrDocumentImmutable.Code)

	f.metrics.AssertCalled(t, "RecordPosted", mock.Anything, string(reconciliation.DocumentTypeReturn), mock.Anything)
}

func TestService_CreateReturn_UnknownStore(t *testing.T) {
	f := newFixture(t)
	req := f.returnRequest("10")
	req.StoreID = uuid.New()

	_, err := f.svc.CreateReturn(context.Background(), req)
	de := assertCode(t, err, reconciliation.ErrIneligibleSource.Code)
	field, _ := de.Detail("field")
	assert.Equal(t, "store_id", field)
	assert.Empty(t, f.store.returns)
}

func TestService_CreateReturn_ReportsEveryViolation(t *testing.T) {
	f := newFixture(t)
	req := f.returnRequest("0")
	req.Lines = append(req.Lines, req.Lines[0])

	_, err := f.svc.CreateReturn(context.Background(), req)
	de := assertCode(t, err, reconciliation.ErrInvalidQuantity.Code)
	raw, ok := de.Detail(reconciliation.DetailViolations)
	require.True(t, ok)
	codes := []string{}
	for _, v := range raw.([]reconciliation.Violation) {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, reconciliation.ErrDuplicateLine.Code)
}

func TestService_SaveReturn_CannotShrinkBelowCommitment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")
	_, err := f.replacement(t, ret, "6")
	require.NoError(t, err)

	req := f.returnRequest("5")
	req.Lines[0].ID = &ret.Lines[0].ID
	_, err = f.svc.SaveReturn(ctx, ret.ID, req)
	assertCode(t, err, reconciliation.ErrConservationViolation.Code)

	req = f.returnRequest("8")
	req.Lines[0].ID = &ret.Lines[0].ID
	saved, err := f.svc.SaveReturn(ctx, ret.ID, req)
	require.NoError(t, err)
	assertDecimal(t, "8", saved.Lines[0].ReturnQuantity)
	assert.Equal(t, 3, saved.Version)
}

func TestService_SaveReturn_CannotMoveClaimedLineToOtherStock(t *testing.T) {
	moved := func(f *fixture, ret *ReturnResponse) ReturnRequest {
		req := f.returnRequest("10")
		req.Lines[0].ID = &ret.Lines[0].ID
		req.Lines[0].ProductID = uuid.New()
		req.Lines[0].BatchID = uuid.New()
		req.Lines[0].BatchNumber = "B-OTHER"
		return req
	}

	t.Run("posted replacement", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		ret := f.pendingReturn(t, "10")
		f.postReplacement(t, ret, "4")

		_, err := f.svc.SaveReturn(ctx, ret.ID, moved(f, ret))
		de := assertCode(t, err, reconciliation.ErrLineStockChanged.Code)
		assert.Equal(t, shared.KindConservation, de.Kind)

		stored, err := f.svc.GetReturn(ctx, ret.ID)
		require.NoError(t, err)
		assert.Equal(t, f.productID, stored.Lines[0].ProductID)
		assert.Equal(t, f.batch.ID, stored.Lines[0].BatchID)
		assertDecimal(t, "4", stored.Lines[0].AlreadyReplacedQuantity)
	})

	t.Run("in-flight replacement", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		ret := f.pendingReturn(t, "10")
		rp, err := f.replacement(t, ret, "4")
		require.NoError(t, err)

		_, err = f.svc.SaveReturn(ctx, ret.ID, moved(f, ret))
		de := assertCode(t, err, reconciliation.ErrLineStockChanged.Code)
		docs, _ := de.Detail("documents")
		assert.Equal(t, []string{rp.DocumentNumber}, docs)

		stored, err := f.svc.GetReturn(ctx, ret.ID)
		require.NoError(t, err)
		assert.Equal(t, f.batch.ID, stored.Lines[0].BatchID)
	})

	t.Run("unclaimed line may move", func(t *testing.T) {
		f := newFixture(t)
		ret := f.pendingReturn(t, "10")
		req := moved(f, ret)

		saved, err := f.svc.SaveReturn(context.Background(), ret.ID, req)
		require.NoError(t, err)
		assert.Equal(t, ret.Lines[0].ID, saved.Lines[0].ID)
		assert.Equal(t, req.Lines[0].BatchID, saved.Lines[0].BatchID)
	})
}

// ==================== Replacements ====================

func TestService_PartialReplacementChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")
	lineID := ret.Lines[0].ID

	first := f.postReplacement(t, ret, "4")
	require.NotNil(t, first.Posting)
	require.Len(t, first.Posting.Movements, 1)
	assertDecimal(t, "4", first.Posting.Movements[0].Delta)
	assertDecimal(t, "24", first.Posting.Movements[0].QuantityAfter)

	pending, err := f.svc.GetPendingQuantity(ctx, lineID)
	require.NoError(t, err)
	assertDecimal(t, "6", pending.PendingQuantity)

	_, err = f.replacement(t, ret, "7")
	assertCode(t, err, reconciliation.ErrQuantityExceedsPending.Code)

	f.postReplacement(t, ret, "6")

	pending, err = f.svc.GetPendingQuantity(ctx, lineID)
	require.NoError(t, err)
	assertDecimal(t, "0", pending.PendingQuantity)
	assertDecimal(t, "10", pending.AlreadyReplacedQuantity)
	assertDecimal(t, "30", f.store.batch(f.batch.ID).Quantity)

	assert.Contains(t, f.store.eventTypes(), reconciliation.EventTypeReturnTotallyReplaced)

	eligible, err := f.svc.ListEligibleReturns(ctx, &f.storeID, &f.supplierID)
	require.NoError(t, err)
	assert.Empty(t, eligible, "a totally replaced return cannot seed another replacement")

	_, err = f.replacement(t, ret, "1")
	assertCode(t, err, reconciliation.ErrIneligibleSource.Code)
}

func TestService_RepostReplacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")

	rp, err := f.replacement(t, ret, "4")
	require.NoError(t, err)
	ref := reconciliation.ReplacementRef(rp.ID)

	first, err := f.svc.Post(ctx, ref, PostRequest{})
	require.NoError(t, err)
	assert.False(t, first.AlreadyPosted)
	assertDecimal(t, "24", f.store.batch(f.batch.ID).Quantity)
	movements := len(f.store.movements)
	events := len(f.store.eventTypes())

	again, err := f.svc.Post(ctx, ref, PostRequest{})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPosted)
	assert.Equal(t, string(reconciliation.StatusPosted), again.Status())
	require.NotNil(t, again.Posting)
	assert.Equal(t, first.Posting.PostedAt, again.Posting.PostedAt)
	require.Len(t, again.Posting.Movements, 1)
	assertDecimal(t, "24", again.Posting.Movements[0].QuantityAfter)

	assertDecimal(t, "24", f.store.batch(f.batch.ID).Quantity)
	assert.Len(t, f.store.movements, movements)
	assert.Len(t, f.store.eventTypes(), events)

	pending, err := f.svc.GetPendingQuantity(ctx, ret.Lines[0].ID)
	require.NoError(t, err)
	assertDecimal(t, "4", pending.AlreadyReplacedQuantity)
	assertDecimal(t, "6", pending.PendingQuantity)
}

func TestService_InFlightReplacementsCannotOvercommit(t *testing.T) {
	f := newFixture(t)
	ret := f.pendingReturn(t, "10")

	_, err := f.replacement(t, ret, "6")
	require.NoError(t, err)

	_, err = f.replacement(t, ret, "5")
	de := assertCode(t, err, reconciliation.ErrConservationViolation.Code)
	assert.Equal(t, shared.KindConservation, de.Kind)
}

func TestService_CancelledReplacementFreesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")

	rp, err := f.replacement(t, ret, "6")
	require.NoError(t, err)
	cancelled, err := f.svc.Cancel(ctx, reconciliation.ReplacementRef(rp.ID), CancelRequest{Reason: "wrong supplier"})
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusCancelled), cancelled.Status())
	assert.Equal(t, "wrong supplier", cancelled.Replacement.CancelReason)

	_, err = f.replacement(t, ret, "10")
	require.NoError(t, err)
}

func TestService_PostStaleReplacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")

	rp, err := f.replacement(t, ret, "6")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, reconciliation.ReplacementRef(rp.ID))
	require.NoError(t, err)

	// Another process replaced part of the line after this replacement was submitted.
	f.store.returns[ret.ID].Lines[0].AlreadyReplacedQuantity = dec("5")

	_, err = f.svc.Post(ctx, reconciliation.ReplacementRef(rp.ID), PostRequest{})
	assertCode(t, err, reconciliation.ErrConservationViolation.Code)

	stored, err := f.svc.GetReplacement(ctx, rp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusPending), stored.Status)
	assertDecimal(t, "20", f.store.batch(f.batch.ID).Quantity)
	assert.Empty(t, f.store.postings)
	f.metrics.AssertCalled(t, "RecordPostRejected", mock.Anything,
		string(reconciliation.DocumentTypeReplacement), reconciliation.ErrConservationViolation.Code)
}

func TestService_PostReplacement_UnknownBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ret := f.pendingReturn(t, "10")
	missing := uuid.New()

	rp, err := f.svc.CreateReplacement(ctx, ReplacementRequest{
		ReturnID: ret.ID,
		Lines: []ReplacementLineRequest{{
			ReturnLineID: ret.Lines[0].ID,
			BatchID:      &missing,
			Quantity:     dec("3"),
			Rate:         dec("12.50"),
		}},
	})
	require.NoError(t, err)

	_, err = f.svc.Post(ctx, reconciliation.ReplacementRef(rp.ID), PostRequest{})
	assertCode(t, err, inventory.ErrBatchNotFound.Code)

	pending, err := f.svc.GetPendingQuantity(ctx, ret.Lines[0].ID)
	require.NoError(t, err)
	assertDecimal(t, "10", pending.PendingQuantity)
}

func TestService_CreateReplacement_UnknownReturn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateReplacement(context.Background(), ReplacementRequest{ReturnID: uuid.New()})
	assertCode(t, err, reconciliation.ErrIneligibleSource.Code)
}

func TestService_UnknownDocumentType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), reconciliation.DocumentRef{Type: "INVOICE", ID: uuid.New()})
	assertCode(t, err, shared.ErrInvalidInput.Code)
}

// ==================== Exchanges ====================

type exchangeFixture struct {
	*fixture
	sale     *reconciliation.SaleTransaction
	newBatch *inventory.StockBatch
}

// newExchangeFixture sells 2 x 10.00 from the fixture batch and stocks
// newQty of a second product at 8.00.
func newExchangeFixture(t *testing.T, newQty string, opts ...ServiceOption) *exchangeFixture {
	t.Helper()
	f := newFixture(t, opts...)
	sale := &reconciliation.SaleTransaction{
		ID:       uuid.New(),
		Number:   "S-1001",
		StoreID:  f.storeID,
		SaleDate: time.Now().Add(-48 * time.Hour),
	}
	sale.Lines = []reconciliation.SaleLine{{
		ID:                       uuid.New(),
		SaleID:                   sale.ID,
		ProductID:                f.productID,
		BatchID:                  f.batch.ID,
		OriginalQuantity:         dec("2"),
		AlreadyExchangedQuantity: decimal.Zero,
		UnitPrice:                dec("10"),
	}}
	f.store.sales[sale.ID] = sale

	newProduct := uuid.New()
	newBatch := inventory.NewStockBatch(f.storeID, newProduct, "B-NEW", nil, dec(newQty), dec("5"))
	f.store.batches[newBatch.ID] = newBatch
	return &exchangeFixture{fixture: f, sale: sale, newBatch: newBatch}
}

func (f *exchangeFixture) request(reason string, returnQty, newQty string) ExchangeRequest {
	return ExchangeRequest{
		SaleID: f.sale.ID,
		ReturnItems: []ExchangeReturnItemRequest{{
			SaleLineID:     f.sale.Lines[0].ID,
			ReturnQuantity: dec(returnQty),
			Reason:         reason,
		}},
		NewItems: []ExchangeNewItemRequest{{
			ProductID: f.newBatch.ProductID,
			BatchID:   f.newBatch.ID,
			Quantity:  dec(newQty),
			UnitPrice: dec("8"),
		}},
	}
}

func TestService_PostExchange(t *testing.T) {
	f := newExchangeFixture(t, "10")
	ctx := context.Background()

	ex, err := f.svc.CreateExchange(ctx, f.request("wrong item", "2", "3"))
	require.NoError(t, err)
	assertDecimal(t, "4", ex.DifferenceToPay)
	assert.Equal(t, string(reconciliation.SettlementCustomerOwes), ex.Settlement)
	assert.True(t, ex.ReturnItems[0].Restock)

	posted, err := f.svc.Post(ctx, reconciliation.ExchangeRef(ex.ID), PostRequest{})
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusPosted), posted.Status())
	require.Len(t, posted.Posting.Movements, 2)

	assertDecimal(t, "7", f.store.batch(f.newBatch.ID).Quantity)
	assertDecimal(t, "22", f.store.batch(f.batch.ID).Quantity)
	assertDecimal(t, "2", f.store.sales[f.sale.ID].Lines[0].AlreadyExchangedQuantity)

	stored, err := f.svc.GetExchange(ctx, ex.ID)
	require.NoError(t, err)
	require.Len(t, stored.Allocations, 1)
	assertDecimal(t, "4", stored.Allocations[0].DifferenceShare)

	lines, err := f.svc.ListEligibleSaleLines(ctx, f.sale.ID)
	require.NoError(t, err)
	assert.Empty(t, lines, "a fully exchanged sale line is no longer eligible")
}

func TestService_RepostExchange(t *testing.T) {
	f := newExchangeFixture(t, "10")
	ctx := context.Background()

	ex, err := f.svc.CreateExchange(ctx, f.request("wrong item", "1", "2"))
	require.NoError(t, err)
	ref := reconciliation.ExchangeRef(ex.ID)

	first, err := f.svc.Post(ctx, ref, PostRequest{})
	require.NoError(t, err)
	assert.False(t, first.AlreadyPosted)
	movements := len(f.store.movements)

	again, err := f.svc.Post(ctx, ref, PostRequest{})
	require.NoError(t, err)
	assert.True(t, again.AlreadyPosted)
	assert.Equal(t, string(reconciliation.StatusPosted), again.Status())
	require.NotNil(t, again.Posting)
	assert.Len(t, again.Posting.Movements, 2)

	assertDecimal(t, "8", f.store.batch(f.newBatch.ID).Quantity)
	assertDecimal(t, "21", f.store.batch(f.batch.ID).Quantity)
	assert.Len(t, f.store.movements, movements)
	assertDecimal(t, "1", f.store.sales[f.sale.ID].Lines[0].AlreadyExchangedQuantity)

	stored, err := f.svc.GetExchange(ctx, ex.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Allocations, 1)
}

func TestService_PostExchange_DamagedGoodsNotRestocked(t *testing.T) {
	f := newExchangeFixture(t, "10")
	ctx := context.Background()

	ex, err := f.svc.CreateExchange(ctx, f.request("DAMAGED", "1", "1"))
	require.NoError(t, err)
	assert.False(t, ex.ReturnItems[0].Restock)

	posted, err := f.svc.Post(ctx, reconciliation.ExchangeRef(ex.ID), PostRequest{})
	require.NoError(t, err)
	require.Len(t, posted.Posting.Movements, 1)
	assert.Equal(t, string(inventory.MovementExchangeIssue), posted.Posting.Movements[0].Kind)

	assertDecimal(t, "20", f.store.batch(f.batch.ID).Quantity)
	assertDecimal(t, "9", f.store.batch(f.newBatch.ID).Quantity)
	assertDecimal(t, "1", f.store.sales[f.sale.ID].Lines[0].AlreadyExchangedQuantity)
}

func TestService_PostExchange_RestockPolicyOption(t *testing.T) {
	f := newExchangeFixture(t, "10",
		WithRestockPolicy(reconciliation.NewRestockPolicy(reconciliation.ReasonDamaged)))
	ctx := context.Background()

	ex, err := f.svc.CreateExchange(ctx, f.request("DAMAGED", "1", "1"))
	require.NoError(t, err)
	_, err = f.svc.Post(ctx, reconciliation.ExchangeRef(ex.ID), PostRequest{})
	require.NoError(t, err)

	assertDecimal(t, "21", f.store.batch(f.batch.ID).Quantity)
}

func TestService_PostExchange_InsufficientStock(t *testing.T) {
	f := newExchangeFixture(t, "3")
	ctx := context.Background()

	ex, err := f.svc.CreateExchange(ctx, f.request("WRONG_ITEM", "2", "5"))
	require.NoError(t, err)

	_, err = f.svc.Post(ctx, reconciliation.ExchangeRef(ex.ID), PostRequest{})
	de := assertCode(t, err, inventory.ErrInsufficientBatchStock.Code)
	assert.Equal(t, shared.KindStock, de.Kind)
	shortfall, ok := inventory.ShortfallOf(err)
	require.True(t, ok)
	assertDecimal(t, "2", shortfall)

	stored, err := f.svc.GetExchange(ctx, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, string(reconciliation.StatusPending), stored.Status)
	assertDecimal(t, "3", f.store.batch(f.newBatch.ID).Quantity)
	assertDecimal(t, "20", f.store.batch(f.batch.ID).Quantity)
	assertDecimal(t, "0", f.store.sales[f.sale.ID].Lines[0].AlreadyExchangedQuantity)
	assert.Empty(t, f.store.postings)
	assert.Empty(t, f.store.movements)

	f.metrics.AssertCalled(t, "RecordShortfall", mock.Anything, "B-NEW",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec("2")) }))
}

func TestService_CreateExchange_ExceedsSold(t *testing.T) {
	f := newExchangeFixture(t, "10")

	_, err := f.svc.CreateExchange(context.Background(), f.request("WRONG_ITEM", "3", "1"))
	assertCode(t, err, reconciliation.ErrExceedsSoldQuantity.Code)
}

func TestService_CreateExchange_InvalidReason(t *testing.T) {
	f := newExchangeFixture(t, "10")

	_, err := f.svc.CreateExchange(context.Background(), f.request("lost it", "1", "1"))
	assertCode(t, err, reconciliation.ErrInvalidReason.Code)
}

func TestService_CreateExchange_UnknownSale(t *testing.T) {
	f := newExchangeFixture(t, "10")
	req := f.request("WRONG_ITEM", "1", "1")
	req.SaleID = uuid.New()

	_, err := f.svc.CreateExchange(context.Background(), req)
	assertCode(t, err, reconciliation.ErrIneligibleSource.Code)
}

func TestService_PreviewExchange(t *testing.T) {
	f := newFixture(t)

	diff := f.svc.PreviewExchange(context.Background(), PreviewExchangeRequest{
		ReturnItems: []PricedLineRequest{{Quantity: dec("2"), UnitPrice: dec("10")}},
		NewItems:    []PricedLineRequest{{Quantity: dec("1"), UnitPrice: dec("15")}},
	})
	assertDecimal(t, "20", diff.TotalReturn)
	assertDecimal(t, "15", diff.TotalNew)
	assertDecimal(t, "-5", diff.Difference)
	assertDecimal(t, "5", diff.RefundDue)
	assertDecimal(t, "0", diff.AmountDue)
	assert.Equal(t, string(reconciliation.SettlementRefundDue), diff.Settlement)
}

// ==================== Queries ====================

func TestService_ListReturns_FiltersByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pendingReturn(t, "3")
	_, err := f.svc.CreateReturn(ctx, f.returnRequest("4"))
	require.NoError(t, err)

	list, err := f.svc.ListReturns(ctx, DocumentListFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, string(reconciliation.StatusPending), list.Items[0].Status)

	_, err = f.svc.ListReturns(ctx, DocumentListFilter{Status: "shipped"})
	assertCode(t, err, reconciliation.ErrInvalidStatus.Code)
}

func TestService_ListEligibleGRNs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	posted := &reconciliation.GoodsReceivedNote{
		ID: uuid.New(), Number: "GRN-1", StoreID: f.storeID, SupplierID: f.supplierID,
		Status: reconciliation.GRNStatusPosted,
	}
	draft := &reconciliation.GoodsReceivedNote{
		ID: uuid.New(), Number: "GRN-2", StoreID: f.storeID, SupplierID: f.supplierID,
		Status: reconciliation.GRNStatusDraft,
	}
	f.store.grns[posted.ID] = posted
	f.store.grns[draft.ID] = draft

	grns, err := f.svc.ListEligibleGRNs(ctx, f.storeID, f.supplierID)
	require.NoError(t, err)
	require.Len(t, grns, 1)
	assert.Equal(t, "GRN-1", grns[0].Number)

	_, err = f.svc.ListEligibleGRNs(ctx, uuid.Nil, f.supplierID)
	assertCode(t, err, reconciliation.ErrMissingField.Code)
}

func TestService_GetPostingResult_NotPosted(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetPostingResult(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
