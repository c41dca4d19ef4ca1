package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/erp/ecocare/internal/application/catalog"
	partnerapp "github.com/erp/ecocare/internal/application/partner"
	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/infrastructure/auth"
	"github.com/erp/ecocare/internal/infrastructure/cache"
	"github.com/erp/ecocare/internal/infrastructure/config"
	"github.com/erp/ecocare/internal/infrastructure/event"
	"github.com/erp/ecocare/internal/infrastructure/logger"
	"github.com/erp/ecocare/internal/infrastructure/persistence"
	"github.com/erp/ecocare/internal/infrastructure/scheduler"
	"github.com/erp/ecocare/internal/infrastructure/storage"
	"github.com/erp/ecocare/internal/infrastructure/telemetry"
	"github.com/erp/ecocare/internal/interfaces/http/handler"
	"github.com/erp/ecocare/internal/interfaces/http/middleware"
	"github.com/erp/ecocare/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/erp/ecocare/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			ecocare sales API
//	@version		1.0
//	@description	Customer exclusive products, the sale order request wizard and pricelist reference prices.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Service: cfg.App.Name,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// Telemetry providers come first so the bridged logger and the DB plugin see them.
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
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		level, err := zapcore.ParseLevel(cfg.Telemetry.LogsLevel)
		if err != nil {
			level = zapcore.InfoLevel
		}
		log = loggerProvider.Bridge(log, level)
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.SpanProfilesEnabled && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
		for name, shutdown := range map[string]func(context.Context) error{
			"tracer": tracerProvider.Shutdown,
			"meter":  meterProvider.Shutdown,
			"logger": loggerProvider.Shutdown,
		} {
			if err := shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down telemetry", zap.String("provider", name), zap.Error(err))
			}
		}
	}()

	log.Info("Starting ecocare",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, cfg.Log.SQLLevel, cfg.Log.SlowQuery)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	uomRepo := persistence.NewGormUomRepository(db.DB)
	pricelistRepo := persistence.NewGormPricelistRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	requestRepo := persistence.NewGormSaleOrderRequestRepository(db.DB)
	resolver := persistence.NewHierarchyResolver(db.DB)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Application services
	refresher := catalogapp.NewReferencePriceRefresher(categoryRepo, pricelistRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, uomRepo, customerRepo, refresher, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	uomService := catalogapp.NewUomService(uomRepo)
	pricelistService := catalogapp.NewPricelistService(pricelistRepo, productRepo, refresher,
		persistence.NewGormCatalogTransactionScope(db.DB), log)
	exclusivityService := catalogapp.NewExclusivityService(productRepo, customerRepo,
		persistence.NewGormCatalogTransactionScope(db.DB), log)
	customerService := partnerapp.NewCustomerService(customerRepo, companyRepo, pricelistRepo, log)
	companyService := partnerapp.NewCompanyService(companyRepo, pricelistRepo)
	selectionService := tradeapp.NewProductSelectionService(customerRepo, productRepo, resolver)
	pricingService := tradeapp.NewPricingService(companyRepo, pricelistRepo, categoryRepo, uomRepo)
	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, customerRepo, productRepo,
		selectionService, pricingService, log)
	requestService := tradeapp.NewSaleOrderRequestService(requestRepo, salesOrderRepo, customerRepo,
		productRepo, uomRepo, selectionService, pricingService,
		persistence.NewGormTradeTransactionScope(db.DB), log)
	requestService.SetIdempotencyStore(idempotencyStore, cfg.Idempotency.TTL)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	salesMetrics, err := telemetry.NewSalesMetrics(meterProvider.Meter("ecocare/sales"))
	if err != nil {
		log.Fatal("Failed to create sales metrics", zap.Error(err))
	}
	metricsHandler := event.NewIdempotentHandler("sales_metrics", salesMetrics, idempotencyStore, cfg.Idempotency.TTL, log)
	eventBus.Subscribe(metricsHandler)
	log.Info("Event handlers registered", zap.Strings("sales_metrics_events", metricsHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	productService.SetEventPublisher(eventBus)
	exclusivityService.SetEventPublisher(eventBus)
	customerService.SetEventPublisher(eventBus)
	salesOrderService.SetEventPublisher(eventBus)
	requestService.SetEventPublisher(eventBus)

	// Request vacuum, archiving done requests to object storage when enabled
	var archiver tradeapp.RequestArchiver
	if cfg.Storage.ArchiveEnabled {
		s3Archiver, err := storage.NewS3RequestArchiver(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create request archiver", zap.Error(err))
		}
		if err := s3Archiver.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare archive bucket", zap.Error(err))
		}
		archiver = s3Archiver
		log.Info("Request archiving enabled", zap.String("bucket", s3Archiver.Bucket()))
	}
	vacuum := tradeapp.NewRequestVacuumService(requestRepo, archiver, cfg.Vacuum.MaxAge, cfg.Vacuum.BatchSize, log)
	vacuumScheduler := scheduler.NewVacuumScheduler(vacuum, log, scheduler.VacuumSchedulerConfig{
		Enabled:  cfg.Vacuum.Enabled,
		Interval: cfg.Vacuum.Interval,
		Timeout:  scheduler.DefaultVacuumSchedulerConfig().Timeout,
	})
	if err := vacuumScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start vacuum scheduler", zap.Error(err))
	}
	defer func() {
		if err := vacuumScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping vacuum scheduler", zap.Error(err))
		}
	}()

	// HTTP handlers
	healthHandler := handler.NewHealthHandler(cfg.App.Name, telemetry.ServiceVersion, map[string]handler.Pinger{
		"database": db,
	})
	handlers := router.Handlers{
		Products:         handler.NewProductHandler(productService, exclusivityService),
		CatalogSetup:     handler.NewCatalogSetupHandler(categoryService, uomService),
		Pricelists:       handler.NewPricelistHandler(pricelistService),
		Partners:         handler.NewPartnerHandler(customerService, companyService, exclusivityService),
		SalesOrders:      handler.NewSalesOrderHandler(salesOrderService, selectionService),
		SaleOrderRequest: handler.NewSaleOrderRequestHandler(requestService),
		System:           healthHandler,
	}

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

	httpMetrics, err := middleware.HTTPMetrics(meterProvider.Meter("ecocare/http"))
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}

	engine.Use(logger.AccessLog(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure(cfg.App.Env == "production"))
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.TraceLogFields())
	engine.Use(httpMetrics)

	engine.GET("/health", healthHandler.Live)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/swagger/*any", middleware.SwaggerGuard(cfg.Swagger.Enabled), ginSwagger.WrapHandler(swaggerFiles.Handler))

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuth(jwtConfig),
		middleware.Tenant(tenantConfig),
		middleware.SpanAttributes(),
		middleware.Profiling(profiler.IsEnabled()),
	)
	r.Register(router.DomainGroups(handlers, router.APIOptions{
		Logger:             log,
		EnforcePermissions: cfg.JWT.EnforcePermissions,
	})...)
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
