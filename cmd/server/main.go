package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalhub/internal/database"
	"rentalhub/internal/handlers"
	"rentalhub/internal/middleware"
	"rentalhub/internal/router"
	"rentalhub/internal/services"
	"rentalhub/pkg/config"
	"rentalhub/pkg/jwt"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	appLogger := logger.GetLogger()
	appLogger.Info("Starting rental marketplace API...")

	if err := database.Initialize(cfg); err != nil {
		appLogger.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			appLogger.Error("Failed to close database:", err)
		}
		if err := database.CloseViewCounter(); err != nil {
			appLogger.Error("Failed to close Redis:", err)
		}
	}()

	if err := database.Migrate(); err != nil {
		appLogger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := seedData(cfg); err != nil {
		appLogger.Fatalf("Failed to initialize seed data: %v", err)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}

	viewCounter := database.GetViewCounter()
	if err := viewCounter.Ping(ctx); err != nil {
		// views are buffered in Redis; the API still serves everything else
		appLogger.Warnf("Redis is not reachable: %v", err)
	}

	gin.SetMode(cfg.Server.Mode)

	db := database.GetDB()
	scheduler := services.NewMaintenanceScheduler(
		services.NewEngagementService(db, viewCounter),
		services.NewDraftService(db),
		cfg.Scheduler.ViewFlushSpec,
		cfg.Scheduler.DraftRetention,
	)
	if err := scheduler.Start(); err != nil {
		appLogger.Errorf("Failed to start maintenance scheduler: %v", err)
	}
	defer scheduler.Stop()

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	defer limiter.Stop()

	r := router.SetupRouter(&router.Deps{
		Config:      cfg,
		DB:          db,
		JWT:         jwt.GetJWTManager(),
		Store:       store,
		ViewCounter: viewCounter,
		RateLimiter: limiter,
		Health: map[string]handlers.Pinger{
			"postgres": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": viewCounter.Ping,
		},
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalf("Failed to start server: %v", err)
		}
	}()

	appLogger.Infof("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown:", err)
	}
	appLogger.Info("Server exited")
}
