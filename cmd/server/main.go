package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appcommission "github.com/erp/salesledger/internal/application/commission"
	appplanning "github.com/erp/salesledger/internal/application/planning"
	appwallet "github.com/erp/salesledger/internal/application/wallet"
	"github.com/erp/salesledger/internal/domain/planning"
	"github.com/erp/salesledger/internal/domain/shared"
	"github.com/erp/salesledger/internal/infrastructure/cache"
	"github.com/erp/salesledger/internal/infrastructure/config"
	"github.com/erp/salesledger/internal/infrastructure/event"
	"github.com/erp/salesledger/internal/infrastructure/logger"
	"github.com/erp/salesledger/internal/infrastructure/migration"
	"github.com/erp/salesledger/internal/infrastructure/persistence"
	"github.com/erp/salesledger/internal/infrastructure/telemetry"
	"github.com/erp/salesledger/internal/interfaces/http/handler"
	"github.com/erp/salesledger/internal/interfaces/http/middleware"
	"github.com/erp/salesledger/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Sales Ledger API
//	@version		1.0
//	@description	Commissions, customer wallets and purchase planning
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = baseLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}

	// Logs go to the collector too once the provider is up
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog, zapcore.InfoLevel)

	log.Info("Starting sales ledger",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiler.Enabled,
		ServerAddress:     cfg.Profiler.ServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Profiler.BasicAuthUser,
		BasicAuthPassword: cfg.Profiler.BasicAuthPassword,
		ProfileTypes:      cfg.Profiler.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && cfg.Profiler.SpanProfiles {
		tracerProvider.EnableSpanProfiles()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBName:          cfg.Database.DBName,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("salesledger/db"), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.MetricsInterval, log)
	if err != nil {
		log.Fatal("Failed to create database metrics", zap.Error(err))
	}
	defer dbMetrics.Stop()
	if cfg.Telemetry.Enabled {
		if err := dbMetrics.Register(db.DB); err != nil {
			log.Fatal("Failed to register database metrics", zap.Error(err))
		}
		if sqlDB, err := db.DB.DB(); err == nil {
			dbMetrics.StartPoolStatsCollection(ctx, sqlDB)
		}
	}
	log.Info("Database connected successfully")

	if cfg.Database.MigrateOnStart {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories and services
	txScope := persistence.NewGormTransactionScope(db.DB)
	earnedRepo := persistence.NewGormCommissionEarnedRepository(db.DB)

	commissionService := appcommission.NewService(
		persistence.NewGormCommissionRuleRepository(db.DB),
		earnedRepo,
		persistence.NewGormRoleResolver(db.DB),
		txScope.CommissionScope(),
		log,
	)
	walletService := appwallet.NewService(
		persistence.NewGormWalletAccountRepository(db.DB),
		persistence.NewGormWalletTransactionRepository(db.DB),
		txScope.WalletScope(),
		log,
	)
	planningService := appplanning.NewService(
		persistence.NewGormAnalyticsRepository(db.DB),
		planningConfig(cfg.Planning),
		log,
	)

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:          meterProvider.Meter("salesledger/business"),
		Logger:         log,
		WalletProvider: telemetry.NewGormWalletMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	defer businessMetrics.Stop()
	commissionService.SetBusinessMetrics(businessMetrics)
	walletService.SetBusinessMetrics(businessMetrics)
	planningService.SetBusinessMetrics(businessMetrics)
	if cfg.Telemetry.Enabled {
		businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	}

	// Events
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Event, redisClient, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() { _ = idempotencyStore.Close() }()

	var locker appcommission.Locker = appcommission.NoOpLocker{}
	if redisClient != nil {
		locker = cache.NewRedisLocker(redisClient, cfg.Commission.SaleLockTTL, log)
	}

	idempotencyMetrics := &event.IdempotencyMetrics{}
	eventBus := event.NewInMemoryEventBus(log)
	handlers := []shared.EventHandler{
		appcommission.NewSaleCompletedHandler(commissionService, earnedRepo, locker, log),
		appcommission.NewServiceOrderFinalizedHandler(commissionService, earnedRepo, locker, log),
		appwallet.NewCashbackGrantedHandler(walletService, log),
	}
	if cfg.Event.IdempotencyEnabled {
		handlers = event.WrapHandlersWithIdempotency(handlers, idempotencyStore, log,
			event.WithIdempotencyConfig(event.IdempotencyConfigFrom(cfg.Event)),
			event.WithIdempotencyMetrics(idempotencyMetrics),
		)
	}
	for _, h := range handlers {
		eventBus.Subscribe(h)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()
	log.Info("Event bus started", zap.Strings("event_types", serializer.RegisteredTypes()))

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("salesledger/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.SpanAttributes())
	engine.Use(httpMetrics)
	engine.Use(middleware.Profiling(profiler.IsEnabled(), "/health", "/health/ready"))
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))

	var debitLimiter gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		l, err := middleware.NewRateLimiter(cfg.HTTP, redisClient)
		if err != nil {
			log.Fatal("Failed to create rate limiter", zap.Error(err))
		}
		debitLimiter = middleware.RateLimit(l, log)
	}

	healthHandler := handler.NewHealthHandler(db.DB, redisClient, idempotencyMetrics, cfg.App.Version)
	router.RegisterHealth(engine, healthHandler)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(router.Groups(router.Handlers{
		Commission: handler.NewCommissionHandler(commissionService),
		Wallet:     handler.NewWalletHandler(walletService),
		Planning:   handler.NewPlanningHandler(planningService),
		Event:      handler.NewEventHandler(serializer, eventBus),
	}, router.Options{DebitLimiter: debitLimiter})...)
	api := r.Setup()
	router.RegisterHealth(api, healthHandler)

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
			log.Error("Failed to start server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := profiler.Stop(); err != nil {
		log.Warn("Error stopping profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Warn("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited")
}

func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, "", log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared pool
	return m.Up()
}

func planningConfig(cfg config.PlanningConfig) appplanning.Config {
	return appplanning.Config{
		RevenueWindowDays:     cfg.RevenueWindowDays,
		ConsumptionWindowDays: cfg.ConsumptionWindowDays,
		Thresholds: planning.Thresholds{
			A: decimal.NewFromFloat(cfg.ThresholdA),
			B: decimal.NewFromFloat(cfg.ThresholdB),
		},
		Coverage: planning.CoveragePolicy{
			A: cfg.CoverageDaysA,
			B: cfg.CoverageDaysB,
			C: cfg.CoverageDaysC,
		},
	}
}
