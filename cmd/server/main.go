package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	"github.com/erp/reconciliation/internal/domain/reconciliation"
	"github.com/erp/reconciliation/internal/infrastructure/auth"
	"github.com/erp/reconciliation/internal/infrastructure/cache"
	"github.com/erp/reconciliation/internal/infrastructure/config"
	"github.com/erp/reconciliation/internal/infrastructure/event"
	"github.com/erp/reconciliation/internal/infrastructure/logger"
	"github.com/erp/reconciliation/internal/infrastructure/messaging"
	"github.com/erp/reconciliation/internal/infrastructure/persistence"
	"github.com/erp/reconciliation/internal/infrastructure/storage"
	"github.com/erp/reconciliation/internal/infrastructure/telemetry"
	"github.com/erp/reconciliation/internal/interfaces/http/handler"
	"github.com/erp/reconciliation/internal/interfaces/http/middleware"
	"github.com/erp/reconciliation/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/erp/reconciliation/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Reconciliation API
//	@version		1.0
//	@description	Supplier returns, supplier replacements and customer exchanges with batch-level stock posting.

//	@contact.name	Inventory Platform Team

//	@license.name	MIT

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT bearer token. Example: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ==================== Telemetry ====================

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize OTEL logs", zap.Error(err))
	}
	log := baseLog
	if loggerProvider.IsEnabled() {
		log = telemetry.Bridge(baseLog, telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, zapcore.InfoLevel))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting reconciliation service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.PyroscopeAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.PyroscopeUser,
		BasicAuthPassword: cfg.Telemetry.PyroscopePassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	// ==================== Database ====================

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         tracerProvider.IsEnabled() && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	var (
		httpMeter   metric.Meter
		dbMetrics   *telemetry.DBMetrics
		reconMetric *telemetry.ReconciliationMetrics
	)
	if meterProvider.IsEnabled() {
		httpMeter = meterProvider.Meter("reconciliation/http")
		dbMetrics, err = telemetry.RegisterDBMetrics(db.DB, meterProvider.Meter("reconciliation/db"),
			telemetry.DBMetricsConfig{SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh}, log)
		if err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		dbMetrics.StartPoolStatsCollection(ctx)

		reconMetric, err = telemetry.NewReconciliationMetrics(telemetry.ReconciliationMetricsConfig{
			Meter:           meterProvider.Meter("reconciliation"),
			Logger:          log.Named("metrics"),
			BacklogProvider: telemetry.NewGormBacklogProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to create reconciliation metrics", zap.Error(err))
		}
		reconMetric.StartBacklogCollection(ctx)
	}

	// ==================== Cache ====================

	cacheFactory := cache.NewFactory(cfg.Redis, cfg.Reconciliation,
		cache.WithLogger(log.Named("cache")),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := cacheFactory.CreateIdempotencyStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	referenceGateway, err := cacheFactory.CreateReferenceGateway(persistence.NewGormReferenceDataGateway(db.DB))
	if err != nil {
		log.Fatal("Failed to create reference gateway", zap.Error(err))
	}
	go func() {
		if err := referenceGateway.StartInvalidationSubscription(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Reference invalidation subscription stopped", zap.Error(err))
		}
	}()

	// ==================== Events ====================

	serializer := event.NewReconciliationSerializer()
	outboxPublisher := event.NewOutboxPublisher(serializer).WithMaxRetries(cfg.Event.MaxRetries)
	eventBus := event.NewInMemoryEventBus(log.Named("events"))

	auditSinks, closeSinks := buildAuditSinks(ctx, cfg, tracerProvider.IsEnabled(), log)
	auditHandler := appreconciliation.NewAuditTrailHandler(log.Named("audit"), auditSinks...)
	eventBus.Subscribe(event.NewIdempotentHandler("audit-trail", auditHandler, idempotencyStore, log,
		event.WithIdempotencyConfig(event.IdempotencyConfig{Enabled: true, TTL: cfg.Event.IdempotencyTTL}),
	))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorCfg := event.DefaultOutboxProcessorConfig()
		processorCfg.BatchSize = cfg.Event.BatchSize
		processorCfg.PollInterval = cfg.Event.PollInterval
		processorCfg.CleanupEnabled = cfg.Event.CleanupEnabled
		processorCfg.CleanupRetention = cfg.Event.CleanupRetention

		outboxProcessor = event.NewOutboxProcessor(event.NewGormOutboxRepository(db.DB), eventBus, serializer,
			processorCfg, log.Named("outbox"))
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
	}

	// ==================== Application ====================

	restockPolicy, err := reconciliation.ParseRestockPolicy(cfg.Reconciliation.RestockableReasons)
	if err != nil {
		log.Fatal("Invalid restockable reasons", zap.Error(err))
	}
	serviceOpts := []appreconciliation.ServiceOption{
		appreconciliation.WithLogger(log.Named("reconciliation")),
		appreconciliation.WithRestockPolicy(restockPolicy),
	}
	if reconMetric != nil {
		serviceOpts = append(serviceOpts, appreconciliation.WithMetrics(reconMetric))
	}
	service := appreconciliation.NewService(
		persistence.NewGormTransactionScope(db.DB, outboxPublisher),
		persistence.NewRepositories(db.DB),
		referenceGateway,
		serviceOpts...,
	)

	// ==================== HTTP ====================

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validations", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	jwtCfg := middleware.DefaultJWTConfig(auth.NewJWTService(cfg.JWT))
	jwtCfg.Logger = log.Named("auth")

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry.ServiceName, tracerProvider.IsEnabled()),
		logger.GinMiddleware(log),
		middleware.CORS(corsCfg),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(httpMeter),
		middleware.JWTAuth(jwtCfg),
	)

	handler.NewHealthHandler(db).RegisterRoutes(engine)
	engine.GET("/swagger/*any", middleware.SwaggerGate(cfg.Swagger.Enabled), ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.NewRouter(engine,
		router.WithGroupMiddleware(middleware.SpanEnricher(), middleware.Profiling(profiler.IsEnabled())),
		router.WithLogger(log),
	).Register(
		handler.NewReturnHandler(service),
		handler.NewReplacementHandler(service),
		handler.NewExchangeHandler(service),
		handler.NewPostingHandler(service),
		handler.NewReferenceHandler(referenceGateway),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain the outbox before the sinks and stores it delivers to
	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	closeSinks()
	if err := idempotencyStore.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if err := referenceGateway.Close(); err != nil {
		log.Error("Error closing reference cache", zap.Error(err))
	}
	if err := cacheFactory.Close(); err != nil {
		log.Error("Error closing Redis client", zap.Error(err))
	}

	if reconMetric != nil {
		reconMetric.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down logger provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// buildAuditSinks opens the configured audit destinations. The returned
// func closes them.
func buildAuditSinks(ctx context.Context, cfg *config.Config, traced bool, log *zap.Logger) ([]appreconciliation.AuditSink, func()) {
	var (
		sinks   []appreconciliation.AuditSink
		closers []func() error
	)

	if cfg.Kafka.Enabled {
		writerCfg := messaging.WriterConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.AuditTopic,
			ClientID:     cfg.Kafka.ClientID,
			BatchSize:    cfg.Kafka.BatchSize,
			BatchTimeout: cfg.Kafka.BatchTimeout,
		}
		var producer messaging.Producer
		if traced {
			var err error
			if producer, err = messaging.NewTracedWriter(writerCfg); err != nil {
				log.Fatal("Failed to create Kafka writer", zap.Error(err))
			}
		} else {
			producer = messaging.NewWriter(writerCfg)
		}
		sink := messaging.NewKafkaAuditSink(producer)
		sinks = append(sinks, sink)
		closers = append(closers, sink.Close)
		log.Info("Kafka audit sink enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.AuditTopic))
	}

	if cfg.Storage.Enabled {
		archive, err := storage.NewS3AuditArchive(&cfg.Storage, storage.WithLogger(log.Named("archive")))
		if err != nil {
			log.Fatal("Failed to create audit archive", zap.Error(err))
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			log.Warn("Audit archive bucket check failed", zap.String("bucket", archive.Bucket()), zap.Error(err))
		}
		sinks = append(sinks, archive)
	} else if cfg.App.Env == "development" {
		sinks = append(sinks, storage.NewMemoryAuditArchive(cfg.Storage.Prefix))
		log.Info("Object storage disabled, archiving audit records in memory")
	}

	return sinks, func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				log.Error("Error closing audit sink", zap.Error(err))
			}
		}
	}
}
