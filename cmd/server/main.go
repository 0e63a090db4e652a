package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	affiliateapp "github.com/shopcore/backend/internal/application/affiliate"
	"github.com/shopcore/backend/internal/application/notify"
	"github.com/shopcore/backend/internal/infrastructure/auth"
	"github.com/shopcore/backend/internal/infrastructure/cache"
	"github.com/shopcore/backend/internal/infrastructure/config"
	"github.com/shopcore/backend/internal/infrastructure/logger"
	"github.com/shopcore/backend/internal/infrastructure/notification"
	"github.com/shopcore/backend/internal/infrastructure/persistence"
	"github.com/shopcore/backend/internal/interfaces/http/handler"
	"github.com/shopcore/backend/internal/interfaces/http/middleware"
	"github.com/shopcore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting affiliate backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database connected")

	// Refund event dedup store: redis when reachable, in-memory otherwise
	var refundEvents affiliateapp.RefundEventStore
	redisStore, err := cache.NewRedisRefundEventStore(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory refund event store", zap.Error(err))
		memStore := cache.NewInMemoryRefundEventStore()
		defer func() { _ = memStore.Close() }()
		refundEvents = memStore
	} else {
		defer func() { _ = redisStore.Close() }()
		refundEvents = redisStore
	}

	// Notification senders: no-ops unless configured
	var emails notify.EmailSender = notify.NopEmailSender{}
	if cfg.SMTP.Host != "" {
		emails = notification.NewSMTPEmailSender(cfg.SMTP, log)
	}
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.WhatsApp.Endpoint != "" {
		notifier = notification.NewWhatsAppNotifier(cfg.WhatsApp, log)
	}

	// Repositories
	affiliateRepo := persistence.NewGormAffiliateRepository(db.DB)
	linkRepo := persistence.NewGormLinkRepository(db.DB)
	clickRepo := persistence.NewGormClickRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	payoutRepo := persistence.NewGormPayoutRepository(db.DB)
	fraudRepo := persistence.NewGormFraudLogRepository(db.DB)
	orders := persistence.NewGormOrderGateway(db.DB)

	// Application services
	registryService := affiliateapp.NewRegistryService(affiliateRepo, linkRepo, clickRepo, commissionRepo, emails, log)
	trackingService := affiliateapp.NewTrackingService(affiliateRepo, clickRepo, linkRepo, commissionRepo, orders, log)
	commissionService := affiliateapp.NewCommissionService(commissionRepo, refundEvents, log)
	payoutService := affiliateapp.NewPayoutService(payoutRepo, commissionRepo, notifier, log)
	fraudService := affiliateapp.NewFraudService(affiliateRepo, clickRepo, commissionRepo, fraudRepo, orders, log)

	// HTTP handlers
	affiliateHandler := handler.NewAffiliateHandler(registryService)
	trackingHandler := handler.NewTrackingHandler(trackingService)
	commissionHandler := handler.NewCommissionHandler(commissionService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	fraudHandler := handler.NewFraudHandler(fraudService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	authMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.AffiliateRoutes(affiliateHandler, trackingHandler, authMiddleware)).
		Register(handler.CommissionRoutes(commissionHandler, authMiddleware)).
		Register(handler.PayoutRoutes(payoutHandler, authMiddleware)).
		Register(handler.FraudRoutes(fraudHandler, authMiddleware))
	r.Setup()

	engine.GET("/health", healthHandler(db))

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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
