package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "ParentBased")
}

func TestNewResource(t *testing.T) {
	res, err := newResource("reconciliation-test")
	require.NoError(t, err)
	assert.Contains(t, res.String(), "service.name=reconciliation-test")
	assert.Contains(t, res.String(), "service.version="+ServiceVersion)
}

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	tp.EnableSpanProfiles()
	assert.NoError(t, tp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, LogsConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))

	p, err := NewProfiler(ProfilerConfig{Enabled: false}, logger)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddressAndName(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "app"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	var nilProvider *LoggerProvider
	core := NewZapOTELCore("svc", nilProvider, zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	logger := Bridge(zap.NewNop(), core)
	logger.Info("dropped")
}
