package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/taskflow/internal/api/handlers"
	"github.com/linskybing/taskflow/internal/api/middleware"
	"github.com/linskybing/taskflow/internal/api/routes"
	"github.com/linskybing/taskflow/internal/application"
	"github.com/linskybing/taskflow/internal/config"
	"github.com/linskybing/taskflow/internal/config/db"
	"github.com/linskybing/taskflow/internal/cron"
	"github.com/linskybing/taskflow/internal/events"
	"github.com/linskybing/taskflow/internal/logger"
	"github.com/linskybing/taskflow/internal/repository"
	"github.com/linskybing/taskflow/internal/storage"
)

func main() {
	// Load configuration from environment variables and .env file
	config.LoadConfig()

	log := logger.New(logger.Config{Level: config.LogLevel, JSON: config.IsProduction()})
	defer func() { _ = log.Sync() }()

	if err := db.Init(); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}

	hub := events.NewHub(log)
	repos := repository.NewRepositories(db.DB)

	// Avatar uploads answer 503 until object storage is configured.
	var avatars application.AvatarStore
	if config.MinioEndpoint != "" {
		store, err := storage.NewAvatarStore(context.Background(), storage.Config{
			Endpoint:  config.MinioEndpoint,
			AccessKey: config.MinioAccessKey,
			SecretKey: config.MinioSecretKey,
			UseSSL:    config.MinioUseSSL,
			Bucket:    config.MinioBucket,
		}, log)
		if err != nil {
			log.Fatalw("failed to initialize object storage", "error", err)
		}
		avatars = store
	}

	svc := application.New(repos, hub, avatars)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cron.StartHistoryCleanup(ctx, svc.Ticket, config.HistoryRetentionDays, log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestContext())
	router.Use(middleware.CORSMiddleware(config.CORSOrigins))
	router.Use(middleware.LoggingMiddleware(log))
	router.Use(middleware.MetricsMiddleware())

	routes.RegisterRoutes(router, handlers.New(svc, hub, log))

	httpServer := &http.Server{
		Addr:              ":" + config.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("starting API server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
}
