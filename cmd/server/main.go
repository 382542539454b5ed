package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajharbinger/lotpilot/internal/api"
	"github.com/ajharbinger/lotpilot/internal/database"
	"github.com/ajharbinger/lotpilot/internal/identify"
	"github.com/ajharbinger/lotpilot/internal/logger"
	"github.com/ajharbinger/lotpilot/internal/middleware"
	"github.com/ajharbinger/lotpilot/internal/repository"
	"github.com/ajharbinger/lotpilot/internal/services"
	"github.com/ajharbinger/lotpilot/pkg/config"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.New("info", "console").Fatal("Failed to load configuration", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", err, "driver", cfg.StorageDriver)
	}
	defer store.close()

	var fetcher *identify.ListingFetcher
	if cfg.EnableListingFetch {
		fetcher = identify.NewListingFetcher(cfg.ListingFetchRPS, cfg.ListingFetchTimeout)
		defer fetcher.Close()
	}

	svc := services.NewServices(store.repos, log, services.Options{
		ReanalysisWorkers: cfg.ReanalysisWorkers,
		Fetcher:           fetcher,
	})

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := newRouter(cfg, svc, store, log)

	if cfg.ReanalysisInterval > 0 {
		if err := svc.Reanalysis.Start(cfg.ReanalysisInterval); err != nil {
			log.Fatal("Failed to start reanalysis pipeline", err)
		}
		defer func() {
			if err := svc.Reanalysis.Stop(); err != nil {
				log.Warn("reanalysis pipeline stop failed", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Environment, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", err)
	}
}

// newRouter assembles the middleware chain and API routes
func newRouter(cfg *config.Config, svc *services.Services, store *storage, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg))
	r.Use(middleware.InputValidationMiddleware(cfg.MaxRequestSize))
	if cfg.EnableRateLimit {
		r.Use(middleware.RateLimitingMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	api.SetupRoutes(r, svc, store.healthCheck)
	return r
}

type storage struct {
	repos       *repository.Repositories
	healthCheck func() error
	close       func()
}

// openStorage builds the repositories for the configured driver
func openStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (*storage, error) {
	if !cfg.UsePostgres() {
		log.Info("Using in-memory storage")
		return &storage{repos: repository.NewMemoryRepositories(), close: func() {}}, nil
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	stats := db.GetStats()
	log.Info("Connected to PostgreSQL", "max_open_connections", stats.MaxOpenConnections)

	closers := []func(){func() { db.Close() }}

	var cache *repository.ReportCache
	if cfg.RedisURL != "" {
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, report cache disabled", "error", err)
		} else {
			cache = repository.NewReportCache(client, cfg.ReportCacheTTL, log)
			closers = append(closers, func() { client.Close() })
			log.Info("Report cache enabled", "ttl", cfg.ReportCacheTTL.String())
		}
	}

	return &storage{
		repos:       repository.NewRepositories(db.DB, cache),
		healthCheck: db.HealthCheck,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}
