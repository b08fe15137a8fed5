package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/erp/reconciliation/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExchangeHandler_Preview(t *testing.T) {
	t.Run("prices the exchange", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("PreviewExchange", mock.Anything, mock.MatchedBy(func(req appreconciliation.PreviewExchangeRequest) bool {
			return len(req.ReturnItems) == 1 && len(req.NewItems) == 1
		})).Return(appreconciliation.DifferentialResponse{
			TotalReturn: decimal.NewFromInt(100),
			TotalNew:    decimal.NewFromInt(130),
			Difference:  decimal.NewFromInt(30),
			Settlement:  "CUSTOMER_OWES",
			AmountDue:   decimal.NewFromInt(30),
		})

		body := map[string]any{
			"return_items": []map[string]any{{"quantity": "2", "unit_price": "50"}},
			"new_items":    []map[string]any{{"quantity": "1", "unit_price": "130"}},
		}
		w, resp := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/preview", body)

		require.Equal(t, http.StatusOK, w.Code)
		var got appreconciliation.DifferentialResponse
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.True(t, got.AmountDue.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, "CUSTOMER_OWES", got.Settlement)
	})

	t.Run("rejects a zero quantity", func(t *testing.T) {
		svc := new(MockReconciliationService)
		body := map[string]any{
			"return_items": []map[string]any{{"quantity": "0", "unit_price": "50"}},
			"new_items":    []map[string]any{{"quantity": "1", "unit_price": "130"}},
		}
		w, resp := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/preview", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.NotEmpty(t, resp.Error.Fields)
		assert.Equal(t, "decimal_gt0", resp.Error.Fields[0].Tag)
		svc.AssertNotCalled(t, "PreviewExchange", mock.Anything, mock.Anything)
	})

	t.Run("requires both sides", func(t *testing.T) {
		svc := new(MockReconciliationService)
		body := map[string]any{"return_items": []map[string]any{{"quantity": "1", "unit_price": "5"}}}
		w, _ := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/preview", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExchangeHandler_Documents(t *testing.T) {
	id := uuid.New()
	saleID := uuid.New()

	t.Run("create", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("CreateExchange", mock.Anything, mock.MatchedBy(func(req appreconciliation.ExchangeRequest) bool {
			return req.SaleID == saleID && len(req.ReturnItems) == 1 && req.ReturnItems[0].Reason == "DEFECTIVE"
		})).Return(&appreconciliation.ExchangeResponse{ID: id}, nil)

		body := map[string]any{
			"sale_id":      saleID,
			"return_items": []map[string]any{{"sale_line_id": uuid.New(), "return_quantity": "1", "reason": "DEFECTIVE"}},
			"new_items":    []map[string]any{{"product_id": uuid.New(), "batch_id": uuid.New(), "quantity": "1", "unit_price": "10"}},
		}
		w, _ := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("list filters by sale", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("ListExchanges", mock.Anything, mock.MatchedBy(func(f appreconciliation.DocumentListFilter) bool {
			return f.SaleID != nil && *f.SaleID == saleID
		})).Return(&appreconciliation.ListResponse[appreconciliation.ExchangeResponse]{Page: 1, PageSize: 20}, nil)

		w, resp := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "GET", "/api/v1/exchanges?sale_id="+saleID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(0), resp.Meta.Total)
	})

	t.Run("submit addresses an exchange", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("Submit", mock.Anything, reconciliation.ExchangeRef(id)).
			Return(&appreconciliation.DocumentResponse{DocumentType: string(reconciliation.DocumentTypeExchange)}, nil)

		w, _ := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/"+id.String()+"/submit", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("post of a missing batch", func(t *testing.T) {
		svc := new(MockReconciliationService)
		batchErr := shared.NewKindError(shared.KindStock, "BATCH_NOT_FOUND", "Stock batch not found")
		svc.On("Post", mock.Anything, reconciliation.ExchangeRef(id), mock.Anything).Return(nil, batchErr)

		w, resp := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/"+id.String()+"/post", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "BATCH_NOT_FOUND", resp.Error.Code)
	})

	t.Run("eligible sale lines", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("ListEligibleSaleLines", mock.Anything, saleID).Return([]appreconciliation.EligibleSaleLineResponse{
			{ID: uuid.New(), SaleID: saleID, RemainingQuantity: decimal.NewFromInt(3)},
		}, nil)

		w, resp := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "GET", "/api/v1/sales/"+saleID.String()+"/eligible-lines", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var lines []appreconciliation.EligibleSaleLineResponse
		require.NoError(t, json.Unmarshal(resp.Data, &lines))
		require.Len(t, lines, 1)
		assert.True(t, lines[0].RemainingQuantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("cancel of a cancelled exchange", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("Cancel", mock.Anything, reconciliation.ExchangeRef(id), appreconciliation.CancelRequest{}).
			Return(nil, reconciliation.ErrDocumentImmutable)

		w, _ := doRequest(t, newTestEngine(nil, NewExchangeHandler(svc)), "POST", "/api/v1/exchanges/"+id.String()+"/cancel", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReplacementHandler(t *testing.T) {
	id := uuid.New()
	returnID := uuid.New()

	t.Run("create against a return", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("CreateReplacement", mock.Anything, mock.MatchedBy(func(req appreconciliation.ReplacementRequest) bool {
			return req.ReturnID == returnID && len(req.Lines) == 1 && req.Lines[0].BatchID == nil
		})).Return(&appreconciliation.ReplacementResponse{ID: id, ReturnID: returnID}, nil)

		body := map[string]any{
			"return_id": returnID,
			"lines":     []map[string]any{{"return_line_id": uuid.New(), "quantity": "4", "rate": "1.25"}},
		}
		w, _ := doRequest(t, newTestEngine(nil, NewReplacementHandler(svc)), "POST", "/api/v1/replacements", body)

		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("conservation violation", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("SaveReplacement", mock.Anything, id, mock.Anything).Return(nil, reconciliation.ErrConservationViolation)

		w, resp := doRequest(t, newTestEngine(nil, NewReplacementHandler(svc)), "PUT", "/api/v1/replacements/"+id.String(),
			map[string]any{"return_id": returnID})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONSERVATION_VIOLATION", resp.Error.Code)
	})

	t.Run("list filters by return", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("ListReplacements", mock.Anything, mock.MatchedBy(func(f appreconciliation.DocumentListFilter) bool {
			return f.ReturnID != nil && *f.ReturnID == returnID
		})).Return(&appreconciliation.ListResponse[appreconciliation.ReplacementResponse]{}, nil)

		w, _ := doRequest(t, newTestEngine(nil, NewReplacementHandler(svc)), "GET", "/api/v1/replacements?return_id="+returnID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("post a replacement", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("Post", mock.Anything, reconciliation.ReplacementRef(id), mock.Anything).
			Return(&appreconciliation.DocumentResponse{AlreadyPosted: true}, nil)

		w, _ := doRequest(t, newTestEngine(nil, NewReplacementHandler(svc)), "POST", "/api/v1/replacements/"+id.String()+"/post", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("get fails with a concurrency conflict", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("GetReplacement", mock.Anything, id).Return(nil, shared.ErrConcurrencyConflict)

		w, _ := doRequest(t, newTestEngine(nil, NewReplacementHandler(svc)), "GET", "/api/v1/replacements/"+id.String(), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPostingHandler(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("GetPostingResult", mock.Anything, id).Return(&appreconciliation.PostingResultResponse{
			DocumentID: id,
			Movements:  []appreconciliation.StockMovementResponse{{Kind: "OUT", Delta: decimal.NewFromInt(-2)}},
		}, nil)

		w, resp := doRequest(t, newTestEngine(nil, NewPostingHandler(svc)), "GET", "/api/v1/postings/"+id.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got appreconciliation.PostingResultResponse
		require.NoError(t, json.Unmarshal(resp.Data, &got))
		assert.Len(t, got.Movements, 1)
	})

	t.Run("not posted", func(t *testing.T) {
		svc := new(MockReconciliationService)
		svc.On("GetPostingResult", mock.Anything, id).Return(nil, shared.ErrNotFound)

		w, _ := doRequest(t, newTestEngine(nil, NewPostingHandler(svc)), "GET", "/api/v1/postings/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

type fakeInvalidator struct {
	kind reconciliation.ReferenceKind
	id   *uuid.UUID
	err  error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, kind reconciliation.ReferenceKind, id *uuid.UUID) error {
	f.kind, f.id = kind, id
	return f.err
}

func TestReferenceHandler_Invalidate(t *testing.T) {
	admin := withClaims(uuid.New(), PermissionReferenceInvalidate)

	t.Run("drops one product", func(t *testing.T) {
		inv := &fakeInvalidator{}
		productID := uuid.New()
		w, _ := doRequest(t, newTestEngine(admin, NewReferenceHandler(inv)), "POST", "/api/v1/reference/cache/invalidate",
			map[string]any{"kind": "product", "id": productID})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, reconciliation.ReferenceProduct, inv.kind)
		require.NotNil(t, inv.id)
		assert.Equal(t, productID, *inv.id)
	})

	t.Run("empty kind drops everything", func(t *testing.T) {
		inv := &fakeInvalidator{kind: "sentinel"}
		w, _ := doRequest(t, newTestEngine(admin, NewReferenceHandler(inv)), "POST", "/api/v1/reference/cache/invalidate", map[string]any{})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, reconciliation.ReferenceKind(""), inv.kind)
		assert.Nil(t, inv.id)
	})

	t.Run("unknown kind", func(t *testing.T) {
		inv := &fakeInvalidator{}
		w, resp := doRequest(t, newTestEngine(admin, NewReferenceHandler(inv)), "POST", "/api/v1/reference/cache/invalidate",
			map[string]any{"kind": "customer"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("requires permission", func(t *testing.T) {
		inv := &fakeInvalidator{}
		clerk := withClaims(uuid.New(), "returns:read")
		w, resp := doRequest(t, newTestEngine(clerk, NewReferenceHandler(inv)), "POST", "/api/v1/reference/cache/invalidate",
			map[string]any{"kind": "store"})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, dto.ErrCodeForbidden, resp.Error.Code)
	})

	t.Run("invalidator failure", func(t *testing.T) {
		inv := &fakeInvalidator{err: errors.New("redis: connection pool timeout")}
		w, resp := doRequest(t, newTestEngine(admin, NewReferenceHandler(inv)), "POST", "/api/v1/reference/cache/invalidate",
			map[string]any{"kind": "store"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	})
}
