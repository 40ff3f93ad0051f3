package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	auditapp "github.com/doaddy/backend/internal/application/audit"
	billingapp "github.com/doaddy/backend/internal/application/billing"
	catalogapp "github.com/doaddy/backend/internal/application/catalog"
	financeapp "github.com/doaddy/backend/internal/application/finance"
	inventoryapp "github.com/doaddy/backend/internal/application/inventory"
	partnerapp "github.com/doaddy/backend/internal/application/partner"
	payrollapp "github.com/doaddy/backend/internal/application/payroll"
	salesapp "github.com/doaddy/backend/internal/application/sales"
	treasuryapp "github.com/doaddy/backend/internal/application/treasury"
	"github.com/doaddy/backend/internal/infrastructure/auth"
	"github.com/doaddy/backend/internal/infrastructure/cache"
	"github.com/doaddy/backend/internal/infrastructure/config"
	"github.com/doaddy/backend/internal/infrastructure/event"
	"github.com/doaddy/backend/internal/infrastructure/logger"
	"github.com/doaddy/backend/internal/infrastructure/persistence"
	"github.com/doaddy/backend/internal/infrastructure/telemetry"
	"github.com/doaddy/backend/internal/interfaces/http/handler"
	"github.com/doaddy/backend/internal/interfaces/http/middleware"
	"github.com/doaddy/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
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
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting doaddy backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	accountRepo := persistence.NewGormMoneyAccountRepository(db.DB)
	moneyMovementRepo := persistence.NewGormMoneyMovementRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	runRepo := persistence.NewGormPayrollRunRepository(db.DB)
	activityLogRepo := persistence.NewGormActivityLogRepository(db.DB)

	// Transaction scopes for multi-aggregate operations
	salesTxScope := persistence.NewGormSalesTransactionScope(db.DB)
	inventoryTxScope := persistence.NewGormInventoryTransactionScope(db.DB)
	treasuryTxScope := persistence.NewGormTreasuryTransactionScope(db.DB)
	financeTxScope := persistence.NewGormFinanceTransactionScope(db.DB)
	payrollTxScope := persistence.NewGormPayrollTransactionScope(db.DB)

	// Application services
	customerService := partnerapp.NewCustomerService(customerRepo)
	itemService := catalogapp.NewItemService(itemRepo)
	stockService := inventoryapp.NewStockService(stockMovementRepo, inventoryTxScope)
	accountService := treasuryapp.NewAccountService(accountRepo, moneyMovementRepo, treasuryTxScope)
	saleService := salesapp.NewSaleService(saleRepo, salesTxScope)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, itemRepo, customerRepo)
	quoteService := billingapp.NewQuoteService(quoteRepo, invoiceRepo, itemRepo, customerRepo)
	paymentService := financeapp.NewPaymentService(paymentRepo, customerRepo, financeTxScope)
	employeeService := payrollapp.NewEmployeeService(employeeRepo)
	runService := payrollapp.NewRunService(runRepo, payrollTxScope)
	activityService := auditapp.NewActivityService(activityLogRepo)

	// Event bus: every domain event lands in the activity log
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(auditapp.NewEventRecorder(activityLogRepo))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	customerService.SetEventPublisher(eventBus)
	itemService.SetEventPublisher(eventBus)
	stockService.SetEventPublisher(eventBus)
	accountService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	quoteService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)
	employeeService.SetEventPublisher(eventBus)
	runService.SetEventPublisher(eventBus)

	// Idempotency store (Redis with in-memory fallback)
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	idempotency := middleware.Idempotency(idempotencyStore, middleware.DefaultIdempotencyTTL)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	itemHandler := handler.NewItemHandler(itemService)
	stockHandler := handler.NewStockHandler(stockService, itemRepo)
	accountHandler := handler.NewAccountHandler(accountService)
	saleHandler := handler.NewSaleHandler(saleService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	runHandler := handler.NewPayrollRunHandler(runService)
	activityHandler := handler.NewActivityHandler(activityService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID, panic recovery, request logging,
	// CORS, tracing. Auth middleware is applied per API group below.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Health check endpoint (outside API versioning, no auth)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths:  []string{"/health", "/healthz", "/ready", "/api/v1/health"},
	}))
	r.Use(middleware.OrgMiddlewareWithConfig(middleware.OrgMiddlewareConfig{
		HeaderEnabled: cfg.App.Env != "production",
		SkipPaths:     []string{"/health", "/healthz", "/ready", "/api/v1/health"},
	}))

	// Partner domain
	partnerRoutes := router.NewDomainGroup("partner", "/customers")
	partnerRoutes.POST("", customerHandler.Create)
	partnerRoutes.GET("", customerHandler.List)
	partnerRoutes.GET("/:id", customerHandler.Get)
	partnerRoutes.PUT("/:id", customerHandler.Update)
	partnerRoutes.DELETE("/:id", customerHandler.Deactivate)
	r.Register(partnerRoutes)

	// Catalog domain, including per-item stock operations
	catalogRoutes := router.NewDomainGroup("catalog", "/items")
	catalogRoutes.POST("", itemHandler.Create)
	catalogRoutes.GET("", itemHandler.List)
	catalogRoutes.GET("/sku/:sku", itemHandler.GetBySKU)
	catalogRoutes.GET("/:id", itemHandler.Get)
	catalogRoutes.PUT("/:id", itemHandler.Update)
	catalogRoutes.DELETE("/:id", itemHandler.Deactivate)
	catalogRoutes.POST("/:id/stock/receive", stockHandler.Receive)
	catalogRoutes.POST("/:id/stock/adjust", stockHandler.Adjust)
	catalogRoutes.GET("/:id/stock/movements", stockHandler.ListForItem)
	catalogRoutes.GET("/:id/stock/ledger", stockHandler.CheckLedger)
	r.Register(catalogRoutes)

	inventoryRoutes := router.NewDomainGroup("inventory", "/stock-movements")
	inventoryRoutes.GET("", stockHandler.List)
	r.Register(inventoryRoutes)

	// Treasury domain
	treasuryRoutes := router.NewDomainGroup("treasury", "")
	treasuryRoutes.POST("/accounts", accountHandler.Create)
	treasuryRoutes.GET("/accounts", accountHandler.List)
	treasuryRoutes.GET("/accounts/:id", accountHandler.Get)
	treasuryRoutes.POST("/accounts/:id/deposit", accountHandler.Deposit)
	treasuryRoutes.POST("/accounts/:id/withdraw", accountHandler.Withdraw)
	treasuryRoutes.GET("/accounts/:id/movements", accountHandler.ListMovements)
	treasuryRoutes.GET("/accounts/:id/ledger", accountHandler.CheckLedger)
	treasuryRoutes.DELETE("/accounts/:id", accountHandler.Deactivate)
	treasuryRoutes.POST("/money-movements/:id/reconcile", accountHandler.Reconcile)
	r.Register(treasuryRoutes)

	// Sales domain (POS). Creation is replay-protected.
	salesRoutes := router.NewDomainGroup("sales", "/sales")
	salesRoutes.POST("", idempotency, saleHandler.Create)
	salesRoutes.GET("", saleHandler.List)
	salesRoutes.GET("/:id", saleHandler.Get)
	salesRoutes.POST("/:id/void", saleHandler.Void)
	r.Register(salesRoutes)

	// Billing domain
	billingRoutes := router.NewDomainGroup("billing", "")
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.POST("/quotes", quoteHandler.Create)
	billingRoutes.GET("/quotes", quoteHandler.List)
	billingRoutes.GET("/quotes/:id", quoteHandler.Get)
	billingRoutes.POST("/quotes/:id/send", quoteHandler.Send)
	billingRoutes.POST("/quotes/:id/accept", quoteHandler.Accept)
	billingRoutes.POST("/quotes/:id/reject", quoteHandler.Reject)
	billingRoutes.POST("/quotes/:id/convert", quoteHandler.Convert)
	r.Register(billingRoutes)

	// Finance domain. Receipt and allocation are replay-protected.
	financeRoutes := router.NewDomainGroup("finance", "/payments")
	financeRoutes.POST("", idempotency, paymentHandler.Receive)
	financeRoutes.GET("", paymentHandler.List)
	financeRoutes.GET("/:id", paymentHandler.Get)
	financeRoutes.POST("/:id/allocate", idempotency, paymentHandler.Allocate)
	financeRoutes.DELETE("/:id/allocations/:invoiceId", paymentHandler.Deallocate)
	financeRoutes.POST("/:id/reverse", paymentHandler.Reverse)
	r.Register(financeRoutes)

	// Payroll domain
	payrollRoutes := router.NewDomainGroup("payroll", "")
	payrollRoutes.POST("/employees", employeeHandler.Create)
	payrollRoutes.GET("/employees", employeeHandler.List)
	payrollRoutes.GET("/employees/:id", employeeHandler.Get)
	payrollRoutes.PUT("/employees/:id", employeeHandler.Update)
	payrollRoutes.DELETE("/employees/:id", employeeHandler.Terminate)
	payrollRoutes.POST("/payroll-runs", runHandler.Create)
	payrollRoutes.GET("/payroll-runs", runHandler.List)
	payrollRoutes.GET("/payroll-runs/:id", runHandler.Get)
	payrollRoutes.POST("/payroll-runs/:id/employees", runHandler.AddEmployee)
	payrollRoutes.DELETE("/payroll-runs/:id/employees/:employeeId", runHandler.RemoveEmployee)
	payrollRoutes.POST("/payroll-runs/:id/complete", runHandler.Complete)
	payrollRoutes.POST("/payroll-runs/:id/pay", runHandler.Pay)
	payrollRoutes.POST("/payroll-runs/:id/cancel", runHandler.Cancel)
	r.Register(payrollRoutes)

	// Audit domain
	auditRoutes := router.NewDomainGroup("audit", "/activities")
	auditRoutes.GET("", activityHandler.List)
	auditRoutes.GET("/:aggregateType/:id", activityHandler.ListForAggregate)
	r.Register(auditRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
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

// healthHandler reports liveness plus a database ping
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
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
