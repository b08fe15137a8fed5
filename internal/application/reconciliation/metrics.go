package reconciliation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Metrics receives business measurements from the service. The telemetry
// package provides the OpenTelemetry implementation.
type Metrics interface {
	RecordPosted(ctx context.Context, documentType string, duration time.Duration)
	RecordPostRejected(ctx context.Context, documentType, code string)
	RecordShortfall(ctx context.Context, batchNumber string, shortfall decimal.Decimal)
	RecordTransition(ctx context.Context, documentType, to string)
}

type noopMetrics struct{}

func (noopMetrics) RecordPosted(context.Context, string, time.Duration) {}
func (noopMetrics) RecordPostRejected(context.Context, string, string) {}
func (noopMetrics) RecordShortfall(context.Context, string, decimal.Decimal) {}
func (noopMetrics) RecordTransition(context.Context, string, string) {}
