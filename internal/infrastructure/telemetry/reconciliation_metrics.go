package telemetry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BacklogProvider counts documents that are not yet in a terminal state.
type BacklogProvider interface {
	// OpenDocumentCounts returns counts keyed by document type, then status
	OpenDocumentCounts(ctx context.Context) (map[string]map[string]int64, error)
}

// ReconciliationMetricsConfig holds configuration for ReconciliationMetrics.
type ReconciliationMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	BacklogProvider BacklogProvider
	CollectInterval time.Duration // Default: 1 minute
}

// ReconciliationMetrics records posting outcomes, status transitions and
// stock shortfalls, and periodically samples the open-document backlog.
type ReconciliationMetrics struct {
	logger *zap.Logger

	postedTotal      *Counter
	rejectedTotal    *Counter
	transitionsTotal *Counter
	shortfallTotal   *Counter
	shortfallUnits   *Histogram
	postingDuration  *Histogram
	openDocuments    *Gauge

	backlog         BacklogProvider
	collectInterval time.Duration
	collectOnce     sync.Once
	started         atomic.Bool
	stopOnce        sync.Once
	stopCh          chan struct{}
	doneCh          chan struct{}
}

// NewReconciliationMetrics registers the reconciliation instruments on the meter.
func NewReconciliationMetrics(cfg ReconciliationMetricsConfig) (*ReconciliationMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	interval := cfg.CollectInterval
	if interval <= 0 {
		interval = time.Minute
	}

	m := &ReconciliationMetrics{
		logger:          logger,
		backlog:         cfg.BacklogProvider,
		collectInterval: interval,
		stopCh:          make(chan struct{}),
		doneCh:          make(chan struct{}),
	}

	var err error
	if m.postedTotal, err = NewCounter(cfg.Meter,
		"reconciliation_documents_posted_total", "Documents posted", "{documents}"); err != nil {
		return nil, err
	}
	if m.rejectedTotal, err = NewCounter(cfg.Meter,
		"reconciliation_post_rejected_total", "Post attempts rejected by validation", "{attempts}"); err != nil {
		return nil, err
	}
	if m.transitionsTotal, err = NewCounter(cfg.Meter,
		"reconciliation_status_transitions_total", "Document status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if m.shortfallTotal, err = NewCounter(cfg.Meter,
		"reconciliation_stock_shortfalls_total", "Stock decreases that exceeded the batch quantity", "{events}"); err != nil {
		return nil, err
	}
	if m.shortfallUnits, err = NewHistogram(cfg.Meter,
		"reconciliation_stock_shortfall_units", "Missing units per shortfall", "{units}",
		[]float64{1, 2, 5, 10, 25, 50, 100, 500}); err != nil {
		return nil, err
	}
	if m.postingDuration, err = NewHistogram(cfg.Meter,
		"reconciliation_posting_duration_seconds", "Time to post a document", "s",
		PostingDurationBuckets); err != nil {
		return nil, err
	}
	if m.openDocuments, err = NewGauge(cfg.Meter,
		"reconciliation_open_documents", "Documents in DRAFT or PENDING", "{documents}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordPosted counts a successful post and its latency
func (m *ReconciliationMetrics) RecordPosted(ctx context.Context, documentType string, duration time.Duration) {
	m.postedTotal.Inc(ctx, AttrDocumentType.String(documentType))
	m.postingDuration.RecordDuration(ctx, duration, AttrDocumentType.String(documentType))
}

// RecordPostRejected counts a post that failed with a domain error code
func (m *ReconciliationMetrics) RecordPostRejected(ctx context.Context, documentType, code string) {
	m.rejectedTotal.Inc(ctx,
		AttrDocumentType.String(documentType),
		AttrErrorCode.String(code),
	)
}

// RecordShortfall counts a stock decrease that would have gone negative
func (m *ReconciliationMetrics) RecordShortfall(ctx context.Context, batchNumber string, shortfall decimal.Decimal) {
	m.shortfallTotal.Inc(ctx, AttrBatchNumber.String(batchNumber))
	m.shortfallUnits.Record(ctx, shortfall.InexactFloat64())
}

// RecordTransition counts a status change
func (m *ReconciliationMetrics) RecordTransition(ctx context.Context, documentType, to string) {
	m.transitionsTotal.Inc(ctx,
		AttrDocumentType.String(documentType),
		AttrDocumentStatus.String(to),
	)
}

// StartBacklogCollection samples the backlog gauge until Stop is called or
// ctx is done. It is a no-op without a BacklogProvider.
func (m *ReconciliationMetrics) StartBacklogCollection(ctx context.Context) {
	if m.backlog == nil {
		return
	}
	m.collectOnce.Do(func() {
		m.started.Store(true)
		go m.runBacklogCollection(ctx)
	})
}

func (m *ReconciliationMetrics) runBacklogCollection(ctx context.Context) {
	defer close(m.doneCh)
	ticker := time.NewTicker(m.collectInterval)
	defer ticker.Stop()

	m.collectBacklog(ctx)
	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectBacklog(ctx)
		}
	}
}

func (m *ReconciliationMetrics) collectBacklog(ctx context.Context) {
	counts, err := m.backlog.OpenDocumentCounts(ctx)
	if err != nil {
		m.logger.Warn("Failed to collect document backlog", zap.Error(err))
		return
	}
	for docType, byStatus := range counts {
		for status, n := range byStatus {
			m.openDocuments.Record(ctx, n,
				AttrDocumentType.String(docType),
				AttrDocumentStatus.String(status),
			)
		}
	}
}

// Stop stops backlog collection and waits for the collector to exit
func (m *ReconciliationMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
	if m.started.Load() {
		<-m.doneCh
	}
}
