package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mappingapp "github.com/ordersync/backend/internal/application/mapping"
	syncapp "github.com/ordersync/backend/internal/application/ordersync"
	"github.com/ordersync/backend/internal/infrastructure/config"
	"github.com/ordersync/backend/internal/infrastructure/logger"
	"github.com/ordersync/backend/internal/infrastructure/moysklad"
	"github.com/ordersync/backend/internal/infrastructure/persistence"
	"github.com/ordersync/backend/internal/infrastructure/scheduler"
	"github.com/ordersync/backend/internal/interfaces/http/handler"
	"github.com/ordersync/backend/internal/interfaces/http/middleware"
	"github.com/ordersync/backend/internal/interfaces/http/router"
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

	log.Info("Starting order sync backend",
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

	// Initialize repositories
	mappingRepo := persistence.NewGormMappingRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)

	// Initialize remote system clients
	sourceClient, err := moysklad.NewClient(moysklad.Config{
		BaseURL: cfg.Source.BaseURL,
		Token:   cfg.Source.Token,
		Timeout: cfg.Source.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure source client", zap.Error(err))
	}
	destinationClient, err := moysklad.NewClient(moysklad.Config{
		BaseURL: cfg.Destination.BaseURL,
		Token:   cfg.Destination.Token,
		Timeout: cfg.Destination.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure destination client", zap.Error(err))
	}

	// Initialize application services
	mappingService := mappingapp.NewService(mappingRepo, log)
	syncService := syncapp.NewService(
		sourceClient,
		destinationClient,
		mappingRepo,
		recordRepo,
		syncapp.Config{
			StateIDs:    cfg.Sync.StateIDs,
			StartMoment: cfg.Sync.StartMoment,
		},
		log,
	)

	// Initialize and start the sync trigger
	syncTrigger, err := scheduler.NewSyncTrigger(scheduler.SyncTriggerConfig{
		Enabled:    cfg.Scheduler.Enabled,
		Interval:   cfg.Scheduler.Interval,
		RunTimeout: cfg.Scheduler.RunTimeout,
	}, syncService, log)
	if err != nil {
		log.Fatal("Failed to configure sync trigger", zap.Error(err))
	}
	syncTrigger.Start()
	defer syncTrigger.Stop()

	// Initialize HTTP handlers
	mappingHandler := handler.NewMappingHandler(mappingService)
	syncHandler := handler.NewSyncHandler(syncService, syncTrigger)
	searchHandler := handler.NewSearchHandler(sourceClient, destinationClient)

	// Setup Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	// Middleware order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. CORS - Handle cross-origin requests
	// 5. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Register versioned API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(mappingHandler).
		Register(syncHandler).
		Register(searchHandler).
		Setup()

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

// healthHandler reports process liveness and database reachability.
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
