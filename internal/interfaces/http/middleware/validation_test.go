package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pricedLine struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

type previewBody struct {
	Items []pricedLine `json:"items" binding:"required,min=1,dive"`
}

func TestDecimalValidations(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	RegisterValidations(v)

	tests := []struct {
		name    string
		line    pricedLine
		wantErr []string
	}{
		{"valid", pricedLine{decimal.NewFromInt(2), decimal.Zero}, nil},
		{"zero quantity", pricedLine{decimal.Zero, decimal.NewFromInt(1)}, []string{"decimal_gt0"}},
		{"negative price", pricedLine{decimal.NewFromInt(1), decimal.NewFromInt(-1)}, []string{"decimal_gte0"}},
		{"both", pricedLine{decimal.NewFromInt(-1), decimal.NewFromInt(-1)}, []string{"decimal_gt0", "decimal_gte0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.line)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			var tags []string
			for _, e := range verrs {
				tags = append(tags, e.Tag())
			}
			assert.ElementsMatch(t, tt.wantErr, tags)
		})
	}
}

func TestHandleValidationError(t *testing.T) {
	require.NoError(t, SetupValidator())

	r := gin.New()
	r.POST("/preview", func(c *gin.Context) {
		var body previewBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		okHandler(c)
	})

	t.Run("field errors use json paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/preview",
			strings.NewReader(`{"items":[{"quantity":"0","unit_price":"5"}]}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(r, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "items[0].quantity", resp.Error.Fields[0].Field)
		assert.Equal(t, "Must be greater than zero", resp.Error.Fields[0].Message)
	})

	t.Run("empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(`{"items":[]}`))
		req.Header.Set("Content-Type", "application/json")
		resp := decodeResponse(t, serve(r, req))
		require.Len(t, resp.Error.Fields, 1)
		assert.Equal(t, "min", resp.Error.Fields[0].Tag)
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(`{"items":`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(r, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_JSON", decodeResponse(t, w).Error.Code)
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/preview",
			strings.NewReader(`{"items":[{"quantity":"2","unit_price":"0"}]}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})
}
