package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound variables in spans (dev only)
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
}

type dbContextKey string

const (
	queryStartKey             dbContextKey = "otel_query_start"
	defaultSlowQueryThreshold              = 200 * time.Millisecond
)

type callbackHook func(db *gorm.DB, name string, fn func(*gorm.DB)) error

// gormHooks registers callbacks before and after each GORM operation
var gormHooks = []struct {
	op            string
	before, after callbackHook
}{
	{"create",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Create().Before("gorm:create").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Create().After("gorm:create").Register(n, fn) }},
	{"query",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Query().Before("gorm:query").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Query().After("gorm:query").Register(n, fn) }},
	{"update",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Update().Before("gorm:update").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Update().After("gorm:update").Register(n, fn) }},
	{"delete",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Delete().Before("gorm:delete").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Delete().After("gorm:delete").Register(n, fn) }},
	{"row",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Row().Before("gorm:row").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Row().After("gorm:row").Register(n, fn) }},
	{"raw",
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Raw().Before("gorm:raw").Register(n, fn) },
		func(db *gorm.DB, n string, fn func(*gorm.DB)) error { return db.Callback().Raw().After("gorm:raw").Register(n, fn) }},
}

// registerAround installs before/after callbacks named prefix:before_<op>
// and prefix:after_<op> around every GORM operation.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(op string) func(*gorm.DB)) error {
	for _, h := range gormHooks {
		if before != nil {
			if err := h.before(db, prefix+":before_"+h.op, before); err != nil {
				return err
			}
		}
		if after != nil {
			if err := h.after(db, prefix+":after_"+h.op, after(h.op)); err != nil {
				return err
			}
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, queryStartKey, time.Now())
}

func queryElapsed(ctx context.Context) (time.Duration, bool) {
	if ctx == nil {
		return 0, false
	}
	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// RegisterDBTracing installs otelgorm and annotates its spans with row
// counts, errors and slow-query events.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = defaultSlowQueryThreshold
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	annotate := func(string) func(*gorm.DB) {
		return func(tx *gorm.DB) { annotateSpan(tx, cfg.SlowQueryThresh) }
	}
	if err := registerAround(db, "otel_annotate", markQueryStart, annotate); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateSpan(db *gorm.DB, slowThreshold time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if elapsed, ok := queryElapsed(ctx); ok && elapsed > slowThreshold {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", slowThreshold.Milliseconds()),
		))
	}
}
