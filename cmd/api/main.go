package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/photoshare/backend/api/routes"
	"github.com/photoshare/backend/internal/auth"
	"github.com/photoshare/backend/internal/comments"
	"github.com/photoshare/backend/internal/photos"
	"github.com/photoshare/backend/internal/ratings"
	"github.com/photoshare/backend/internal/trending"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/auth/session"
	"github.com/photoshare/backend/pkg/config"
	"github.com/photoshare/backend/pkg/db"
	"github.com/photoshare/backend/pkg/logger"
	"github.com/photoshare/backend/pkg/metrics"
	"github.com/photoshare/backend/pkg/migrate"
	"github.com/photoshare/backend/pkg/pubsub"
	"github.com/photoshare/backend/pkg/redis"
	"github.com/photoshare/backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(logg, "database", err)

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(logg, "redis", err)

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	requireResource(logg, "gcs", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(logg, "pubsub", err)

	defer func() {
		err := multierr.Combine(
			pubsubClient.Close(),
			gcsClient.Close(),
			redisClient.Close(),
			dbClient.Close(),
		)
		if err != nil {
			logg.Error(context.Background(), "error closing clients", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(logg, "session manager", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cacheMetrics := metrics.NewTrendingCacheMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	requireResource(logg, "auth service", err)

	trendingCache, err := trending.NewCache(redisClient, redisClient, cfg.Trending.CacheTTL)
	requireResource(logg, "trending cache", err)

	trendingService, err := trending.NewService(trending.ServiceParams{
		Cache:   trendingCache,
		Repo:    trending.NewRepository(dbClient.DB()),
		Logger:  logg,
		Metrics: cacheMetrics,
		Config:  cfg.Trending,
	})
	requireResource(logg, "trending service", err)

	cleanupPublisher, err := photos.NewCleanupPublisher(pubsubClient.MediaCleanupPublisher())
	requireResource(logg, "cleanup publisher", err)

	photosService, err := photos.NewService(photos.ServiceParams{
		Repo:             photos.NewRepository(dbClient.DB()),
		GCS:              gcsClient,
		CleanupPublisher: cleanupPublisher,
		Trending:         trendingService,
		Logger:           logg,
		GCSConfig:        cfg.GCS,
		MediaConfig:      cfg.Media,
	})
	requireResource(logg, "photos service", err)

	commentsService, err := comments.NewService(comments.ServiceParams{
		Repo:     comments.NewRepository(dbClient.DB()),
		Photos:   photos.NewRepository(dbClient.DB()),
		Users:    users.NewRepository(dbClient.DB()),
		Trending: trendingService,
	})
	requireResource(logg, "comments service", err)

	ratingsService, err := ratings.NewService(ratings.ServiceParams{
		DB:       dbClient,
		Trending: trendingService,
	})
	requireResource(logg, "ratings service", err)

	router := routes.NewRouter(routes.RouterParams{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Sessions: sessionManager,
		Registry: registry,
		Auth:     authService,
		Trending: trendingService,
		Photos:   photosService,
		Comments: commentsService,
		Ratings:  ratingsService,
		Users:    users.NewRepository(dbClient.DB()),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutting down api server")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "resource not working: "+resource, err)
	os.Exit(1)
}
