package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/nursery-erp/backend/internal/application/catalog"
	costingapp "github.com/nursery-erp/backend/internal/application/costing"
	ledgerapp "github.com/nursery-erp/backend/internal/application/ledger"
	reportapp "github.com/nursery-erp/backend/internal/application/report"
	stockapp "github.com/nursery-erp/backend/internal/application/stock"
	valuationapp "github.com/nursery-erp/backend/internal/application/valuation"
	"github.com/nursery-erp/backend/internal/infrastructure/config"
	"github.com/nursery-erp/backend/internal/infrastructure/event"
	"github.com/nursery-erp/backend/internal/infrastructure/logger"
	"github.com/nursery-erp/backend/internal/infrastructure/persistence"
	"github.com/nursery-erp/backend/internal/infrastructure/telemetry"
	"github.com/nursery-erp/backend/internal/interfaces/http/handler"
	"github.com/nursery-erp/backend/internal/interfaces/http/middleware"
	"github.com/nursery-erp/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Nursery Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

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

	// Initialize tracing (if enabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
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
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	rateRepo := persistence.NewGormRateRepository(db.DB)
	plantRepo := persistence.NewGormPlantRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	entryRepo := persistence.NewGormEntryRepository(db.DB)
	stockTxScope := persistence.NewGormStockTransactionScope(db.DB)
	salesReader := persistence.NewGormSalesReader(db.DB)
	expenseReader := persistence.NewGormExpenseReader(db.DB)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	batchAuditHandler := event.NewBatchAuditHandler(log)
	eventBus.Subscribe(batchAuditHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize application services
	valuationService := valuationapp.NewValuationService(rateRepo, log)
	costingService := costingapp.NewCostingService(plantRepo, batchRepo, valuationService.Converter(), log)
	costingService.SetEventPublisher(eventBus)
	stockService := stockapp.NewStockService(stockTxScope, log)
	ledgerService := ledgerapp.NewLedgerService(entryRepo, log)
	reportService := reportapp.NewReportService(salesReader, expenseReader, costingService, valuationService.Resolver(), log)
	plantService := catalogapp.NewPlantService(plantRepo, log)

	// Initialize HTTP handlers
	valuationHandler := handler.NewValuationHandler(valuationService)
	costingHandler := handler.NewCostingHandler(costingService)
	stockHandler := handler.NewStockHandler(stockService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	reportHandler := handler.NewReportHandler(reportService)
	plantHandler := handler.NewPlantHandler(plantService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

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
	// 7. Tracing - OpenTelemetry spans (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		tracingConfig := middleware.DefaultTracingConfig()
		tracingConfig.ServiceName = cfg.Telemetry.ServiceName
		engine.Use(middleware.TracingWithConfig(tracingConfig))
		engine.Use(middleware.TracingAttributeInjector())
		engine.Use(middleware.SpanErrorMarker())
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Identity headers are injected by the upstream gateway; requests
	// without a valid tenant never reach a handler
	identityConfig := middleware.DefaultIdentityConfig()
	identityConfig.Logger = log
	identityConfig.SkipPaths = append(identityConfig.SkipPaths,
		"/api/v1/ping",
		"/api/v1/system/ping",
		"/api/v1/system/info",
	)
	engine.Use(middleware.IdentityWithConfig(identityConfig))

	// Valuation domain (inflation rates, restatement)
	valuationRoutes := router.NewDomainGroup("valuation", "/valuation")
	valuationRoutes.PUT("/rates", valuationHandler.UpsertRate)
	valuationRoutes.GET("/rates", valuationHandler.ListRates)
	valuationRoutes.GET("/rates/resolve", valuationHandler.ResolveRate)
	valuationRoutes.POST("/real-value", valuationHandler.RealValue)

	// Costing domain (production batches, cost pools, COGS matching)
	costingRoutes := router.NewDomainGroup("costing", "/costing")
	costingRoutes.POST("/batches", costingHandler.StartBatch)
	costingRoutes.GET("/batches", costingHandler.ListBatches)
	costingRoutes.GET("/batches/:id", costingHandler.GetBatch)
	costingRoutes.POST("/batches/:id/costs", costingHandler.AllocateCost)
	costingRoutes.POST("/batches/:id/consume", costingHandler.ConsumeBatch)
	costingRoutes.POST("/match", costingHandler.MatchCost)

	// Stock domain (movements, on-hand levels)
	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.POST("/movements", stockHandler.ChangeStock)
	stockRoutes.GET("/movements", stockHandler.ListMovements)
	stockRoutes.GET("/movements/by-document/:document_id", stockHandler.MovementsForDocument)
	stockRoutes.POST("/transfers", stockHandler.Transfer)
	stockRoutes.GET("/levels", stockHandler.ListLevels)
	stockRoutes.GET("/levels/current", stockHandler.CurrentQuantity)

	// Ledger domain (counterparty accounts)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/entries", ledgerHandler.PostEntry)
	ledgerRoutes.GET("/entries", ledgerHandler.ListEntries)
	ledgerRoutes.GET("/entries/by-document/:document_id", ledgerHandler.EntriesForDocument)
	ledgerRoutes.POST("/entries/:id/reverse", ledgerHandler.ReverseEntry)
	ledgerRoutes.GET("/accounts/:counterparty_id/balance", ledgerHandler.Balance)
	ledgerRoutes.GET("/accounts/:counterparty_id/statement", ledgerHandler.Statement)

	// Report domain (inflation-adjusted reports)
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/profit-and-loss", reportHandler.ProfitAndLoss)
	reportRoutes.GET("/inflation-index", reportHandler.InflationIndexTrend)
	reportRoutes.GET("/cost-trend", reportHandler.CostTrend)
	reportRoutes.GET("/price-performance", reportHandler.PricePerformanceTrend)

	// Catalog domain (plants)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/plants", plantHandler.Create)
	catalogRoutes.GET("/plants", plantHandler.List)
	catalogRoutes.GET("/plants/:id", plantHandler.GetByID)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(valuationRoutes).
		Register(costingRoutes).
		Register(stockRoutes).
		Register(ledgerRoutes).
		Register(reportRoutes).
		Register(catalogRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
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
