package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dinebook/backend/config"
	httpDelivery "github.com/dinebook/backend/internal/delivery/http"
	"github.com/dinebook/backend/internal/domain"
	"github.com/dinebook/backend/internal/infrastructure/cache"
	"github.com/dinebook/backend/internal/infrastructure/catalog"
	"github.com/dinebook/backend/internal/logger"
	"github.com/dinebook/backend/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// run wires the service and blocks until a shutdown signal or a listener
// failure. Deferred cleanup always runs before it returns.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer zl.Sync()

	zl.Info("starting DineBook backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cacheType", cfg.Cache.Type),
		zap.String("catalogSource", cfg.Catalog.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, closeStore, err := newCache(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer closeStore()

	provider := newCatalogProvider(cfg, zl)

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		store,
		provider,
		usecase.CatalogServiceConfig{CacheTTL: cfg.Catalog.CacheTTL},
		zl.Named("catalog"),
	)

	matcher := usecase.NewVibeMatcher(usecase.VibeMatcherConfig{
		TopN:               cfg.Matching.TopN,
		MaxRegionOptions:   cfg.Matching.MaxRegionOptions,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	}, zl.Named("matcher"))

	recommendationService := usecase.NewRecommendationService(catalogService, matcher, zl.Named("recommend"))

	sessionService := usecase.NewSessionService(
		store,
		catalogService,
		matcher,
		usecase.SessionServiceConfig{
			CalculatingDelay: cfg.Session.CalculatingDelay,
			SessionTTL:       cfg.Session.TTL,
		},
		zl.Named("session"),
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recommendationService, sessionService, zl.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, zl.Named("http"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, srv, zl)
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
// A listener failure is returned to the caller instead of exiting.
func serve(ctx context.Context, srv *http.Server, zl *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newCache(ctx context.Context, cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	return memoryCache, func() { memoryCache.Close() }, nil
}

func newCatalogProvider(cfg *config.Config, zl *zap.Logger) domain.CatalogProvider {
	if cfg.Catalog.Source == "file" {
		zl.Info("reading venues from file", zap.String("path", cfg.Catalog.FilePath))
		return catalog.NewFileProvider(cfg.Catalog.FilePath)
	}

	zl.Info("reading venues from Supabase",
		zap.String("url", cfg.Supabase.URL),
		zap.String("table", cfg.Supabase.Table),
	)
	return catalog.NewClient(catalogClientConfig(cfg), zl.Named("catalog"))
}

func catalogClientConfig(cfg *config.Config) catalog.ClientConfig {
	return catalog.ClientConfig{
		BaseURL:           cfg.Supabase.URL,
		APIKey:            cfg.Supabase.APIKey,
		Table:             cfg.Supabase.Table,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		Timeout:           cfg.Catalog.Timeout,
	}
}
