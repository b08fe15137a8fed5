package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_RecordsRouteSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := gin.New()
	r.Use(RequestID(), Tracing("reconciliation-test", true), SpanEnricher())
	r.POST("/api/v1/returns/:id/post", func(c *gin.Context) {
		c.Status(http.StatusConflict)
	})

	w := serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/returns/abc/post", nil))
	require.Equal(t, http.StatusConflict, w.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Contains(t, span.Name(), "/api/v1/returns/:id/post")
	assert.Equal(t, codes.Error, span.Status().Code)

	var requestID string
	for _, kv := range span.Attributes() {
		if kv.Key == "request_id" {
			requestID = kv.Value.AsString()
		}
	}
	assert.Equal(t, w.Header().Get(RequestIDHeader), requestID)
}

func TestTracing_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(Tracing("x", false), SpanEnricher())
	r.GET("/x", okHandler)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	r := gin.New()
	r.Use(HTTPMetrics(mp.Meter("test")))
	r.GET("/api/v1/returns/:id", okHandler)

	serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/returns/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/returns/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
				route, _ := dp.Attributes.Value(attribute.Key("http.route"))
				counts[route.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), counts["/api/v1/returns/:id"])
	assert.Equal(t, int64(1), counts["unknown"])
}

func TestHTTPMetrics_NilMeter(t *testing.T) {
	r := gin.New()
	r.Use(HTTPMetrics(nil))
	r.GET("/x", okHandler)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code)
}

func TestProfiling_PassesThrough(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.Use(Profiling(enabled))
		called := 0
		r.GET("/api/v1/exchanges/:id", func(c *gin.Context) {
			called++
			okHandler(c)
		})
		r.GET("/health", okHandler)

		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/exchanges/1", nil)).Code)
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
		assert.Equal(t, 1, called)
	}
}
