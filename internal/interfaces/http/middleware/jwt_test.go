package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/reconciliation/internal/infrastructure/auth"
	"github.com/erp/reconciliation/internal/infrastructure/config"
	"github.com/erp/reconciliation/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{Secret: "middleware-test-secret-0123456789", Issuer: "reconciliation"})
}

func signToken(t *testing.T, svc *auth.JWTService, userID uuid.UUID, ttl time.Duration, perms ...string) string {
	t.Helper()
	token, err := svc.SignAccessToken(userID, "clerk", perms, ttl)
	require.NoError(t, err)
	return token
}

func jwtRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(DefaultJWTConfig(svc)))
	r.GET("/health", okHandler)
	handlers := append(extra, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     GetJWTUserID(c),
			"ctx_user_id": logger.GetUserID(c.Request.Context()),
		})
	})
	r.GET("/api/v1/returns", handlers...)
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	svc := newJWTService()
	userID := uuid.New()
	r := jwtRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/returns", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+signToken(t, svc, userID, time.Hour))
	w := serve(r, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"`+userID.String()+`"`)
	assert.Contains(t, w.Body.String(), `"ctx_user_id":"`+userID.String()+`"`)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newJWTService()
	r := jwtRouter(svc)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "ERR_UNAUTHORIZED"},
		{"not bearer", "Basic abc", "ERR_TOKEN_INVALID"},
		{"empty token", "Bearer ", "ERR_TOKEN_INVALID"},
		{"garbage", "Bearer not.a.token", "ERR_TOKEN_INVALID"},
		{"expired", BearerPrefix + signToken(t, svc, uuid.New(), -time.Minute), "ERR_TOKEN_EXPIRED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/returns", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := serve(r, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeResponse(t, w).Error.Code)
		})
	}
}

func TestJWTAuth_SkipsProbes(t *testing.T) {
	r := jwtRouter(newJWTService())
	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermission(t *testing.T) {
	svc := newJWTService()
	r := jwtRouter(svc, RequirePermission("returns:read"))

	tests := []struct {
		name  string
		perms []string
		want  int
	}{
		{"granted", []string{"returns:read"}, http.StatusOK},
		{"wildcard", []string{"*"}, http.StatusOK},
		{"missing", []string{"exchanges:read"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/returns", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+signToken(t, svc, uuid.New(), time.Hour, tt.perms...))
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}
}

func TestRequirePermission_WithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequirePermission("returns:read"), okHandler)
	assert.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}
