package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"milamart/internal/catalog"
	"milamart/internal/config"
	"milamart/internal/database"
	"milamart/internal/handler"
	"milamart/internal/router"
	"milamart/internal/search"
	"milamart/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting milamart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres is only needed when a catalogue source, fallback or archive uses it
	var pool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err = database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to create database schema: %w", err)
		}
	}

	// Initialize catalogue source and archive
	opener := catalog.NewOpener(cfg, pool, logger)

	source, err := opener.Source(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog source: %w", err)
	}

	archiver, err := opener.Archiver(ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("archive", cfg.Catalog.Archive).
			Msg("failed to initialise catalog archive, continuing without it")
	}

	normalizer := catalog.NewNormalizer(catalog.NormalizerConfig{
		ExcludedCategories: cfg.Catalog.ExcludedCategories,
		HomeDecorBrands:    cfg.Catalog.HomeDecorBrands,
	})

	cacheConfig := catalog.DefaultCacheConfig()
	cacheConfig.Timeout = cfg.Catalog.Timeout
	cacheConfig.RetryAttempts = cfg.Catalog.RetryAttempts
	cacheConfig.Archiver = archiver

	// The catalogue is loaded lazily on the first request that needs it
	cache := catalog.NewCache(source, normalizer, cacheConfig, logger)

	logger.Info().
		Str("source", source.Name()).
		Str("archive", cfg.Catalog.Archive).
		Dur("timeout", cfg.Catalog.Timeout).
		Int("retry_attempts", cfg.Catalog.RetryAttempts).
		Msg("catalog cache configured")

	// Initialize services
	productService := service.NewProductService(cache, cfg.Server.PublicBaseURL, logger)
	chatService := service.NewChatService(cache, search.NewMatcher(), logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Product:   handler.NewProductHandler(productService, logger),
		Chat:      handler.NewChatHandler(chatService, logger),
		Discovery: handler.NewDiscoveryHandler(productService, logger),
	}

	// Initialize router
	mux := router.New(handlers, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
