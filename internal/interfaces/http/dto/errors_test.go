package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/reconciliation/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      *shared.DomainError
		expected int
	}{
		{"validation", shared.NewDomainError("INVALID_QUANTITY", "bad"), http.StatusUnprocessableEntity},
		{"conservation", shared.NewKindError(shared.KindConservation, "CONSERVATION_VIOLATION", "x"), http.StatusConflict},
		{"stock shortfall", shared.NewKindError(shared.KindStock, "INSUFFICIENT_BATCH_STOCK", "x"), http.StatusConflict},
		{"missing batch", shared.NewKindError(shared.KindStock, "BATCH_NOT_FOUND", "x"), http.StatusNotFound},
		{"immutable", shared.NewKindError(shared.KindImmutable, "DOCUMENT_IMMUTABLE", "x"), http.StatusConflict},
		{"not found", shared.ErrNotFound, http.StatusNotFound},
		{"conflict", shared.ErrConcurrencyConflict, http.StatusConflict},
		{"unknown kind", &shared.DomainError{Kind: "OTHER", Code: "X"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainHTTPStatus(tt.err))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}

func TestNewDetailedErrorResponse_JSON(t *testing.T) {
	resp := NewDetailedErrorResponse("INSUFFICIENT_BATCH_STOCK", "short", "req-1", map[string]any{
		"shortfall": "2",
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_BATCH_STOCK", errBody["code"])
	assert.Equal(t, "req-1", errBody["request_id"])
	assert.Equal(t, "2", errBody["details"].(map[string]any)["shortfall"])
	assert.NotContains(t, body, "data")
}

func TestNewDetailedErrorResponse_OmitsEmptyDetails(t *testing.T) {
	resp := NewDetailedErrorResponse("NOT_FOUND", "gone", "", nil)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-2", []ValidationDetail{
		{Field: "lines", Tag: "min", Message: "lines must have at least 1 item"},
	})
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Fields, 1)
	assert.Equal(t, "lines", resp.Error.Fields[0].Field)
}
