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
	"github.com/gin-gonic/gin"
	"github.com/summitcrest/realty/internal/application/services"
	"github.com/summitcrest/realty/internal/bootstrap"
	"github.com/summitcrest/realty/internal/config"
	"github.com/summitcrest/realty/internal/infrastructure/database"
	"github.com/summitcrest/realty/internal/interfaces/middleware"
	"github.com/summitcrest/realty/internal/interfaces/rest"
	"github.com/summitcrest/realty/internal/interfaces/web"
	"github.com/summitcrest/realty/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Error tracking is optional; without a DSN the SDK stays disabled
	tracking := cfg.Sentry.DSN != ""
	if tracking {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			zl.Fatal("Failed to initialize Sentry", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
		zl.Info("🛰️ Error tracking enabled", zap.String("environment", cfg.Sentry.Environment))
	}

	// Initialize database connection
	db, err := database.GetInstance(cfg.Database)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	zl.Info("✅ Database connection established", zap.String("dialect", string(db.Dialect())))

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.InitializeSchema(initCtx, db); err != nil {
		cancelInit()
		zl.Fatal("Failed to initialize schema", zap.Error(err))
	}
	cancelInit()

	// Initialize service manager
	svcMgr, err := services.NewServiceManager(cfg, db, zl)
	if err != nil {
		zl.Fatal("Failed to initialize services", zap.Error(err))
	}
	zl.Info("🔧 Service manager initialized")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.ErrorTracking(tracking),
		middleware.RequestLogger(zl),
		middleware.Cors(cfg.CORSOrigins),
	)
	router.SetHTMLTemplate(web.Templates())
	rest.RegisterRoutes(router, svcMgr, cfg)

	// Start scheduled jobs
	if err := svcMgr.StartBackgroundJobs(); err != nil {
		zl.Fatal("Failed to start background jobs", zap.Error(err))
	}
	zl.Info("⏰ Scheduler started",
		zap.String("sitemap_refresh", cfg.Schedule.SitemapRefresh),
		zap.String("review_digest", cfg.Schedule.ReviewDigest))

	zl.Info("🚀 Summitcrest Realty server started",
		zap.String("server", "http://localhost:"+cfg.Port),
		zap.String("content_api", "/api/content"),
		zap.String("portal_api", "/api/portal"),
		zap.String("back_office", "/admin"),
		zap.String("health", "/health"))

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stop background work after in-flight requests drain
	svcMgr.Shutdown(ctx)
	zl.Info("🛑 Scheduler stopped, analytics flushed")

	zl.Info("Server exiting")
}
