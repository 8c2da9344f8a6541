package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/storefront/backend/internal/application/billing"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	identityapp "github.com/storefront/backend/internal/application/identity"
	taxapp "github.com/storefront/backend/internal/application/tax"
	domaincart "github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/email"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/lock"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/shipping"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
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

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize repositories
	cartRepo := persistence.NewGormCartRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)

	// External gateways
	paymentGateway := payment.NewSquareAdapter(cfg.Payment)
	shippoGateway := shipping.NewShippoAdapter(cfg.Shipping)
	emailSender := email.NewMailgunAdapter(cfg.Email)

	// Checkout lock: Redis when configured, otherwise in-process
	var checkoutLocker domaincart.CheckoutLocker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		checkoutLocker = lock.NewRedisLocker(redisClient)
		log.Info("Checkout lock backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		checkoutLocker = lock.NewMemoryLocker()
	}

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	inventoryHandler := catalogapp.NewInventoryHandler(productRepo, log)
	eventBus.Subscribe(inventoryHandler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	storeTenantID := cfg.StoreTenantUUID()

	// Initialize application services
	notificationService := cartapp.NewNotificationService(emailSender, cartRepo, cartapp.NotificationConfig{
		BrandName:  cfg.Email.BrandName,
		AdminEmail: cfg.Email.AdminEmail,
		FromEmail:  cfg.Email.FromEmail,
	}, log)
	defer notificationService.Wait()

	cartService := cartapp.NewCartService(cartRepo, productRepo, taxRateRepo, shippoGateway, storeTenantID, log)
	checkoutService := cartapp.NewCheckoutService(
		cartRepo, paymentRepo, taxRateRepo, paymentGateway,
		checkoutLocker, eventBus, notificationService, storeTenantID, log,
	)
	productService := catalogapp.NewProductService(productRepo, log)
	paymentService := billingapp.NewPaymentService(paymentRepo, shippoGateway, log)
	taxRateService := taxapp.NewTaxRateService(taxRateRepo, log)

	jwtService := auth.NewJWTService(cfg.Auth)
	tenantService := identityapp.NewTenantService(tenantRepo, jwtService, log)

	// Initialize HTTP handlers
	cartHandler := handler.NewCartHandler(cartService, checkoutService, cfg.Cart)
	productHandler := handler.NewProductHandler(productService, storeTenantID)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	taxRateHandler := handler.NewTaxRateHandler(taxRateService)
	authHandler := handler.NewAuthHandler(tenantService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request id, panic recovery, request logging,
	// CORS, body limit, then the cart token extractor.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.CartToken(cfg.Cart.CookieName))

	// Route surfaces: the storefront is public at the root, the admin API
	// sits under /api/v1 behind tenant JWTs, and tenant provisioning is
	// gated by the bootstrap token.
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Storefront(cartHandler).
		Storefront(router.RegistrarFunc(productHandler.RegisterStorefrontRoutes)).
		Storefront(systemHandler).
		Public(authHandler).
		Admin(paymentHandler, middleware.JWTAuthMiddleware(jwtService, log)).
		Admin(taxRateHandler, middleware.JWTAuthMiddleware(jwtService, log)).
		Admin(router.RegistrarFunc(productHandler.RegisterAdminRoutes), middleware.JWTAuthMiddleware(jwtService, log)).
		Admin(tenantHandler, middleware.BootstrapAuth(cfg.Auth.BootstrapToken))
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
