package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/torqride/rentals-api/docs" // Swagger docs
	"github.com/torqride/rentals-api/internal/cache"
	"github.com/torqride/rentals-api/internal/config"
	"github.com/torqride/rentals-api/internal/database"
	"github.com/torqride/rentals-api/internal/handlers"
	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/repository"
	"github.com/torqride/rentals-api/internal/services"
	"github.com/torqride/rentals-api/internal/storage"
	"github.com/torqride/rentals-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title TorqRide Rentals API
// @version 1.0
// @description REST API for the TorqRide bike rental admin dashboard

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Connect to Redis. Transition locks, idempotency and analytics caching
	// degrade to database-only behaviour when Redis is unavailable.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = cache.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis unavailable, running without locks and caching", "error", err)
			rdb = nil
		} else {
			logger.Info("Connected to redis")
		}
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, store, rdb, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, cfg, rdb)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config, rdb *redis.Client) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.GET("/auth/me", h.Auth.Me)
			protected.POST("/auth/change-password", h.Auth.ChangePassword)

			// Admin-only routes
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				// User management
				admin.POST("/users", h.User.Create)
				admin.PUT("/users/:id", h.User.Update)
				admin.DELETE("/users/:id", h.User.Delete)
				admin.PATCH("/users/:id/toggle-status", h.User.ToggleStatus)

				// Store management
				admin.POST("/stores", h.Store.Create)
				admin.PUT("/stores/:id", h.Store.Update)
				admin.DELETE("/stores/:id", h.Store.Deactivate)

				// Pricing management
				admin.POST("/pricing-plans", h.Pricing.Create)
				admin.PUT("/pricing-plans/:id", h.Pricing.Update)

				// Audit logs
				admin.GET("/audit-logs", h.Audit.Index)
			}

			// Staff routes (admin or store manager)
			staff := protected.Group("")
			staff.Use(middleware.RequireRole("admin", "manager"))
			{
				staff.GET("/users", h.User.Index)
				staff.GET("/users/:id", h.User.Show)

				staff.GET("/stores", h.Store.Index)
				staff.GET("/stores/:id", h.Store.Show)

				// Fleet
				staff.GET("/vehicles", h.Vehicle.Index)
				staff.GET("/vehicles/:id", h.Vehicle.Show)
				staff.POST("/vehicles", h.Vehicle.Create)
				staff.PUT("/vehicles/:id", h.Vehicle.Update)
				staff.PATCH("/vehicles/:id/status", h.Vehicle.SetStatus)
				staff.GET("/vehicles/:id/position", h.Tracker.Locate)
				staff.POST("/vehicles/:id/engine", h.Tracker.SetEngine)

				// Pricing quotes
				staff.GET("/pricing-plans", h.Pricing.Index)
				staff.GET("/pricing-plans/quote", h.Pricing.Quote)

				// Bookings. Mutations accept an Idempotency-Key header so
				// dashboard retries do not double-apply.
				bookings := staff.Group("/bookings")
				bookings.Use(middleware.Idempotency(rdb))
				{
					bookings.GET("", h.Booking.Index)
					bookings.GET("/export", h.Booking.Export)
					bookings.GET("/:id", h.Booking.Show)
					bookings.POST("", h.Booking.Create)
					bookings.PATCH("/:id/status", h.Booking.UpdateStatus)
					bookings.POST("/:id/extend", h.Booking.Extend)

					// Additional charges
					bookings.GET("/:id/charges", h.Charge.Index)
					bookings.POST("/:id/charges", h.Charge.SaveAll)
					bookings.DELETE("/:id/charges/:charge_id", h.Charge.Remove)

					// Invoices
					bookings.GET("/:id/invoice", h.Invoice.Show)
					bookings.POST("/:id/invoice", h.Invoice.Issue)
					bookings.GET("/:id/invoice/pdf", h.Invoice.DownloadPDF)
				}

				// Document verification
				staff.GET("/documents/pending", h.Document.Pending)
				staff.GET("/documents/:id/file", h.Document.Download)
				staff.PATCH("/documents/:id/verify", h.Document.Verify)
				staff.PATCH("/documents/:id/reject", h.Document.Reject)

				// Analytics
				analytics := staff.Group("/analytics")
				{
					analytics.GET("/overview", h.Analytics.Overview)
					analytics.GET("/monthly-revenue", h.Analytics.MonthlyRevenue)
					analytics.GET("/fleet-distribution", h.Analytics.FleetDistribution)
					analytics.GET("/export", h.Analytics.Export)
				}
			}

			// All authenticated users
			protected.POST("/documents", h.Document.Upload)
			// Customers may only view their own documents
			protected.GET("/users/:id/documents", middleware.RequireStaffOrOwner(), h.Document.ListForUser)

			// Notifications. Static route first so "read-all" is not matched
			// as :id.
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.PATCH("/read-all", h.Notification.MarkAllAsRead)
				notifications.PATCH("/:id/read", h.Notification.MarkAsRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue returns every hour
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue returns...")
		return svcs.Booking.NotifyOverdueReturns(ctx)
	})

	// Snapshot daily revenue once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Snapshotting daily revenue...")
		return svcs.Analytics.SnapshotDailyRevenue(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
