package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-authoring-service/internal/cache"
	"github.com/SAP-F-2025/course-authoring-service/internal/client"
	"github.com/SAP-F-2025/course-authoring-service/internal/config"
	"github.com/SAP-F-2025/course-authoring-service/internal/handlers"
	"github.com/SAP-F-2025/course-authoring-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/course-authoring-service/internal/services"
	"github.com/SAP-F-2025/course-authoring-service/internal/session"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
	"github.com/SAP-F-2025/course-authoring-service/internal/validator"
	"github.com/SAP-F-2025/course-authoring-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment, os.Stdout)
	slog.SetDefault(logger)
	appLogger := utils.FromSlogLogger(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	checkpoints := postgres.NewCheckpointPostgreSQL(db)

	drafts, err := newSessionStore(cfg, appLogger)
	if err != nil {
		logger.Error("Failed to set up session store", "error", err)
		os.Exit(1)
	}

	courseAPI := client.New(cfg.CourseAPIURL,
		client.WithToken(cfg.CourseAPIToken),
		client.WithTimeout(cfg.CourseAPITimeout),
		client.WithLogger(appLogger.With("component", "course_api")),
	)

	publisher, err := cfg.Events.CreateEventPublisher(logger)
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", "error", err)
		}
	}()

	authoring := services.NewAuthoringService(courseAPI, drafts, checkpoints, publisher, validator.New(), logger)
	importExport := services.NewImportExportService(drafts, logger)

	tokenParser := handlers.NewCasdoorParser(cfg.Casdoor)
	if tokenParser == nil {
		logger.Warn("Casdoor is not configured, falling back to the X-Session-ID header for admin identity")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.RequestID())
	router.Use(utils.LoggerMiddleware(appLogger))
	router.Use(utils.ContextLogger(appLogger))

	handlers.NewHandlerManager(authoring, importExport, tokenParser, appLogger).SetupRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting course authoring service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Server exited")
}

// newSessionStore picks the draft store. Redis keeps drafts across restarts
// and replicas; memory is for local runs.
func newSessionStore(cfg *config.Config, logger utils.Logger) (session.Store, error) {
	if cfg.SessionStore != "redis" {
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return session.NewRedisStore(cache.NewRedisCache(rdb, logger), cfg.SessionTTL), nil
}
