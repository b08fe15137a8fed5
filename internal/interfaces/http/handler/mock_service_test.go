package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// MockReconciliationService is a mock implementation of ReconciliationService
type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) CreateReturn(ctx context.Context, req appreconciliation.ReturnRequest) (*appreconciliation.ReturnResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReturnResponse), args.Error(1)
}

func (m *MockReconciliationService) SaveReturn(ctx context.Context, id uuid.UUID, req appreconciliation.ReturnRequest) (*appreconciliation.ReturnResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReturnResponse), args.Error(1)
}

func (m *MockReconciliationService) GetReturn(ctx context.Context, id uuid.UUID) (*appreconciliation.ReturnResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReturnResponse), args.Error(1)
}

func (m *MockReconciliationService) ListReturns(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ReturnResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ListResponse[appreconciliation.ReturnResponse]), args.Error(1)
}

func (m *MockReconciliationService) GetPendingQuantity(ctx context.Context, returnLineID uuid.UUID) (*appreconciliation.PendingQuantityResponse, error) {
	args := m.Called(ctx, returnLineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.PendingQuantityResponse), args.Error(1)
}

func (m *MockReconciliationService) ListEligibleReturns(ctx context.Context, storeID, supplierID *uuid.UUID) ([]appreconciliation.ReturnResponse, error) {
	args := m.Called(ctx, storeID, supplierID)
	return args.Get(0).([]appreconciliation.ReturnResponse), args.Error(1)
}

func (m *MockReconciliationService) ListEligibleGRNs(ctx context.Context, storeID, supplierID uuid.UUID) ([]appreconciliation.GRNResponse, error) {
	args := m.Called(ctx, storeID, supplierID)
	return args.Get(0).([]appreconciliation.GRNResponse), args.Error(1)
}

func (m *MockReconciliationService) CreateReplacement(ctx context.Context, req appreconciliation.ReplacementRequest) (*appreconciliation.ReplacementResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReplacementResponse), args.Error(1)
}

func (m *MockReconciliationService) SaveReplacement(ctx context.Context, id uuid.UUID, req appreconciliation.ReplacementRequest) (*appreconciliation.ReplacementResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReplacementResponse), args.Error(1)
}

func (m *MockReconciliationService) GetReplacement(ctx context.Context, id uuid.UUID) (*appreconciliation.ReplacementResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ReplacementResponse), args.Error(1)
}

func (m *MockReconciliationService) ListReplacements(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ReplacementResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ListResponse[appreconciliation.ReplacementResponse]), args.Error(1)
}

func (m *MockReconciliationService) CreateExchange(ctx context.Context, req appreconciliation.ExchangeRequest) (*appreconciliation.ExchangeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ExchangeResponse), args.Error(1)
}

func (m *MockReconciliationService) SaveExchange(ctx context.Context, id uuid.UUID, req appreconciliation.ExchangeRequest) (*appreconciliation.ExchangeResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ExchangeResponse), args.Error(1)
}

func (m *MockReconciliationService) GetExchange(ctx context.Context, id uuid.UUID) (*appreconciliation.ExchangeResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ExchangeResponse), args.Error(1)
}

func (m *MockReconciliationService) ListExchanges(ctx context.Context, filter appreconciliation.DocumentListFilter) (*appreconciliation.ListResponse[appreconciliation.ExchangeResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.ListResponse[appreconciliation.ExchangeResponse]), args.Error(1)
}

func (m *MockReconciliationService) ListEligibleSaleLines(ctx context.Context, saleID uuid.UUID) ([]appreconciliation.EligibleSaleLineResponse, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).([]appreconciliation.EligibleSaleLineResponse), args.Error(1)
}

func (m *MockReconciliationService) PreviewExchange(ctx context.Context, req appreconciliation.PreviewExchangeRequest) appreconciliation.DifferentialResponse {
	args := m.Called(ctx, req)
	return args.Get(0).(appreconciliation.DifferentialResponse)
}

func (m *MockReconciliationService) Submit(ctx context.Context, ref reconciliation.DocumentRef) (*appreconciliation.DocumentResponse, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.DocumentResponse), args.Error(1)
}

func (m *MockReconciliationService) Post(ctx context.Context, ref reconciliation.DocumentRef, req appreconciliation.PostRequest) (*appreconciliation.DocumentResponse, error) {
	args := m.Called(ctx, ref, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.DocumentResponse), args.Error(1)
}

func (m *MockReconciliationService) Cancel(ctx context.Context, ref reconciliation.DocumentRef, req appreconciliation.CancelRequest) (*appreconciliation.DocumentResponse, error) {
	args := m.Called(ctx, ref, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.DocumentResponse), args.Error(1)
}

func (m *MockReconciliationService) GetPostingResult(ctx context.Context, documentID uuid.UUID) (*appreconciliation.PostingResultResponse, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appreconciliation.PostingResultResponse), args.Error(1)
}

// testResponse mirrors dto.Response with raw data for per-test decoding
type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
		Fields  []struct {
			Field string `json:"field"`
			Tag   string `json:"tag"`
		} `json:"fields"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// newTestEngine mounts the registrars under /api/v1. pre runs before the
// routes, for example to inject JWT claims.
func newTestEngine(pre gin.HandlerFunc, registrars ...interface{ RegisterRoutes(*gin.RouterGroup) }) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	if pre != nil {
		engine.Use(pre)
	}
	api := engine.Group("/api/v1")
	for _, r := range registrars {
		r.RegisterRoutes(api)
	}
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp testResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}
