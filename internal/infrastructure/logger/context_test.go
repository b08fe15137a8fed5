package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetUserID(ctx))
	assert.Empty(t, GetDocument(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithUserID(ctx, "user-1")
	ctx = WithDocument(ctx, "RETURN/7b4c1f2e")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Equal(t, "RETURN/7b4c1f2e", GetDocument(ctx))
}

func TestL_EnrichesEntries(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)

	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-123")
	ctx = WithDocument(ctx, "EXCHANGE/42")

	L(ctx).Info("document posted", zap.Int("movements", 3))

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "EXCHANGE/42", fields["document"])
	assert.Equal(t, int64(3), fields["movements"])
	assert.NotContains(t, fields, "user_id")
	assert.NotContains(t, fields, "trace_id")
}

func TestFor_AddsTraceIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	core, recorded := observer.New(zapcore.InfoLevel)
	For(ctx, zap.New(core)).Info("traced")

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestFor_NilBase(t *testing.T) {
	assert.NotPanics(t, func() {
		For(context.Background(), nil).Info("dropped")
	})
}
