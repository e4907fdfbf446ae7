package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/speclens/backend/config"
	httpDelivery "github.com/speclens/backend/internal/delivery/http"
	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/infrastructure/cache"
	"github.com/speclens/backend/internal/infrastructure/catalog"
	"github.com/speclens/backend/internal/logging"
	"github.com/speclens/backend/internal/usecase"
)

const limiterIdleTimeout = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stdout,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("Starting SpecLens backend v1.0.0")

	store, err := newCatalogStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialise catalog store")
	}

	memoryCache := cache.NewMemoryCache(cfg.Cache.CleanupInterval)
	defer memoryCache.Close()
	logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Attribute cache ready")

	service := usecase.NewRecommendationService(
		store,
		memoryCache,
		usecase.RecommendationServiceConfig{
			CacheTTL: cfg.Cache.TTL,
			Limits: domain.RelationshipLimits{
				Similar:     cfg.Engine.SimilarLimit,
				Alternative: cfg.Engine.AlternativeLimit,
				Upgrade:     cfg.Engine.UpgradeLimit,
				Downgrade:   cfg.Engine.DowngradeLimit,
				CrossBrand:  cfg.Engine.CrossBrandLimit,
			},
		},
	)

	var limiter *httpDelivery.IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP)
		logging.Info().Int("per_minute", cfg.RateLimit.PerIP).Msg("Per-IP rate limiting enabled")
	}

	handler := httpDelivery.NewHandler(service)
	router := httpDelivery.SetupRouter(cfg, handler, limiter)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if limiter != nil {
		go pruneLimiter(ctx, limiter)
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// newCatalogStore picks the remote Catalog Store when configured and the local file otherwise
func newCatalogStore(cfg *config.Config) (domain.CatalogRepository, error) {
	if cfg.Catalog.IsRemote() {
		client := catalog.NewClient(cfg.Catalog.RemoteURL, cfg.Catalog.RequestsPerSecond, cfg.Catalog.RefreshInterval)

		// Enable debug mode in development environment
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}

		logging.Info().
			Str("url", cfg.Catalog.RemoteURL).
			Dur("refresh_interval", cfg.Catalog.RefreshInterval).
			Msg("Using remote catalog store")
		return client, nil
	}

	logging.Info().Str("path", cfg.Catalog.Path).Msg("Using catalog file")
	return catalog.NewFileStore(cfg.Catalog.Path)
}

func pruneLimiter(ctx context.Context, limiter *httpDelivery.IPRateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Prune(limiterIdleTimeout)
		}
	}
}
