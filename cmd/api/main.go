package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardcheck/internal/brandtable"
	"cardcheck/internal/card"
	"cardcheck/internal/config"
	"cardcheck/internal/database"
	"cardcheck/internal/handler"
	"cardcheck/internal/repository"
	"cardcheck/internal/router"
	"cardcheck/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting cardcheck API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry, err := loadRegistry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialise brand registry: %w", err)
	}

	var checkRepo repository.CheckRepository
	if cfg.Cards.AuditEnabled {
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to initialise database: %w", err)
		}
		defer pool.Close()

		checkRepo = repository.NewCheckRepository(pool, logger)
		if err := checkRepo.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare audit schema: %w", err)
		}
	} else {
		logger.Info().Msg("validation audit disabled")
	}

	clock := card.SystemClock{}
	validator := card.NewValidator(registry, clock, logger)
	cardService := service.NewCardService(validator, checkRepo, clock, logger)
	cardHandler := handler.NewCardHandler(cardService, logger)

	mux := router.New(cardHandler, cfg.Auth.APIKey, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// loadRegistry builds the brand registry from the configured brand table,
// trying S3 first when it is enabled.
func loadRegistry(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*card.Registry, error) {
	fileLoader := brandtable.NewFileLoader(logger)

	var s3Loader brandtable.Loader
	if cfg.S3.Enabled {
		l, err := brandtable.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	}

	loader := brandtable.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	return brandtable.Build(ctx, loader, cfg.Cards.BrandTablePath, logger)
}
