package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/brokersuite/backend/internal/application/billing"
	claimsapp "github.com/brokersuite/backend/internal/application/claims"
	documentsapp "github.com/brokersuite/backend/internal/application/documents"
	stockapp "github.com/brokersuite/backend/internal/application/stock"
	"github.com/brokersuite/backend/internal/domain/numbering"
	"github.com/brokersuite/backend/internal/domain/stock"
	"github.com/brokersuite/backend/internal/infrastructure/cache"
	"github.com/brokersuite/backend/internal/infrastructure/config"
	"github.com/brokersuite/backend/internal/infrastructure/event"
	"github.com/brokersuite/backend/internal/infrastructure/logger"
	"github.com/brokersuite/backend/internal/infrastructure/persistence"
	"github.com/brokersuite/backend/internal/infrastructure/telemetry"
	"github.com/brokersuite/backend/internal/interfaces/http/handler"
	"github.com/brokersuite/backend/internal/interfaces/http/middleware"
	"github.com/brokersuite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			BrokerSuite API
//	@version		1.0
//	@description	Document numbering, invoice lifecycle and stock ledger backend for the suite.

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BrokerSuite backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Initialize the OTLP log bridge. When enabled, zap output is teed to the
	// collector alongside the configured stdout/stderr sink.
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: logsProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	}

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilerEnabled,
		ServerAddress:     cfg.Telemetry.ProfilerEndpoint,
		ApplicationName:   cfg.Telemetry.ServiceName,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Initialize distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:          true,
			LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:         "postgresql",
			WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Register database metrics: query counters and pool gauges
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBMetricsEnabled {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("database"), telemetry.DBMetricsConfig{
			Enabled:            true,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize database metrics", zap.Error(err))
		} else {
			if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
				log.Warn("Failed to register database metrics plugin", zap.Error(err))
			}
			if sqlDB, err := db.DB.DB(); err == nil {
				dbMetrics.SetSQLDB(sqlDB)
				dbMetrics.StartPoolStatsCollection(ctx)
			}
			defer dbMetrics.Stop()
		}
	}

	// Initialize repositories
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	claimRepo := persistence.NewGormClaimRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)

	// Document number allocation shared by every numbered module
	allocator, err := numbering.NewAllocatorWithWidth(sequenceRepo, cfg.Sequence.NumberWidth)
	if err != nil {
		log.Fatal("Invalid sequence number width", zap.Error(err))
	}

	// In-memory event bus with domain event subscribers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(claimsapp.NewClaimEscalatedHandler(log))
	eventBus.Subscribe(stockapp.NewNegativeStockHandler(log))

	// Balance cache: Redis when reachable, in-process fallback otherwise
	var balanceCache stock.BalanceCache
	redisCache, err := cache.NewRedisBalanceCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, using in-memory balance cache", zap.Error(err))
		balanceCache = cache.NewInMemoryBalanceCache(cache.WithInMemoryLogger(log))
	} else {
		log.Info("Redis balance cache connected",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
		balanceCache = redisCache
	}
	defer func() {
		if err := balanceCache.Close(); err != nil {
			log.Error("Error closing balance cache", zap.Error(err))
		}
	}()

	// Business metrics with periodic ledger collection
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:          meterProvider.Meter("business"),
			Logger:         log,
			LedgerProvider: telemetry.NewGormLedgerMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics = bm
			businessMetrics.StartPeriodicCollection(ctx, telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize application services
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, allocator)
	invoiceService.SetEventPublisher(eventBus)

	claimService := claimsapp.NewClaimService(claimRepo, allocator)
	claimService.SetEventPublisher(eventBus)

	documentService := documentsapp.NewDocumentService(documentRepo, allocator)
	documentService.SetEventPublisher(eventBus)

	stockService := stockapp.NewStockService(movementRepo)
	stockService.SetEventPublisher(eventBus)
	stockService.SetBalanceCache(balanceCache, cfg.Stock.BalanceCacheTTL)
	if cfg.Stock.AllowNegative {
		stockService.SetPolicy(stock.DefaultPolicy())
	} else {
		stockService.SetPolicy(stock.StrictPolicy())
		log.Info("Strict stock policy enabled, outbound movements cannot drive balances negative")
	}

	if businessMetrics != nil {
		invoiceService.SetBusinessMetrics(businessMetrics)
		claimService.SetBusinessMetrics(businessMetrics)
		documentService.SetBusinessMetrics(businessMetrics)
		stockService.SetBusinessMetrics(businessMetrics)
	}

	// Initialize handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	claimHandler := handler.NewClaimHandler(claimService)
	documentHandler := handler.NewDocumentHandler(documentService)
	stockHandler := handler.NewStockHandler(stockService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing/Metrics - Observability (if enabled)
	// 9. Tenant - Resolve tenant context
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Observability middleware
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	// Tenant resolution from the X-Tenant-ID header. Handlers reject
	// requests without tenant context on tenant-scoped routes.
	engine.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		HeaderEnabled: true,
		Required:      false,
		SkipPaths:     []string{"/health", "/api/v1/system"},
		Logger:        log,
	}))

	// Profiling labels need the tenant already resolved, so this sits after
	// the tenant middleware.
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}

	// Health check endpoint
	engine.GET("/health", healthHandler(db, log))

	// Register routes by domain
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/number/:number", invoiceHandler.GetByNumber)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/lines", invoiceHandler.AddLineItem)
	billingRoutes.PUT("/invoices/:id/lines/:item_id", invoiceHandler.UpdateLineItem)
	billingRoutes.DELETE("/invoices/:id/lines/:item_id", invoiceHandler.RemoveLineItem)
	billingRoutes.POST("/invoices/:id/validate", invoiceHandler.Validate)
	billingRoutes.POST("/invoices/:id/convert", invoiceHandler.ConvertToFinal)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.MarkSent)
	billingRoutes.POST("/invoices/:id/pay", invoiceHandler.MarkPaid)
	billingRoutes.POST("/invoices/:id/overdue", invoiceHandler.MarkOverdue)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	r.Register(billingRoutes)

	claimsRoutes := router.NewDomainGroup("claims", "/claims")
	claimsRoutes.POST("", claimHandler.Register)
	claimsRoutes.GET("", claimHandler.List)
	claimsRoutes.GET("/number/:number", claimHandler.GetByNumber)
	claimsRoutes.GET("/:id", claimHandler.GetByID)
	claimsRoutes.DELETE("/:id", claimHandler.Delete)
	claimsRoutes.PUT("/:id/reception-date", claimHandler.UpdateReceptionDate)
	claimsRoutes.PUT("/:id/description", claimHandler.UpdateDescription)
	claimsRoutes.POST("/:id/escalate", claimHandler.Escalate)
	claimsRoutes.POST("/:id/resolve", claimHandler.Resolve)
	claimsRoutes.POST("/:id/close", claimHandler.Close)
	r.Register(claimsRoutes)

	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/movements", stockHandler.RecordMovement)
	stockRoutes.GET("/movements", stockHandler.ListMovements)
	stockRoutes.GET("/movements/:id", stockHandler.GetMovement)
	stockRoutes.GET("/warehouses/:warehouse_id/products/:product_id/balance", stockHandler.GetBalance)
	stockRoutes.GET("/warehouses/:warehouse_id/balances", stockHandler.WarehouseBalances)
	r.Register(stockRoutes)

	documentRoutes := router.NewDomainGroup("documents", "/documents")
	documentRoutes.POST("", documentHandler.Create)
	documentRoutes.GET("", documentHandler.List)
	documentRoutes.GET("/number/:number", documentHandler.GetByNumber)
	documentRoutes.GET("/:id", documentHandler.GetByID)
	documentRoutes.PUT("/:id", documentHandler.Update)
	documentRoutes.DELETE("/:id", documentHandler.Delete)
	documentRoutes.POST("/:id/issue", documentHandler.Issue)
	documentRoutes.POST("/:id/archive", documentHandler.Archive)
	r.Register(documentRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
