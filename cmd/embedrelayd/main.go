// Package main implements the embedrelay daemon: an HTTP service that
// resolves text to embedding vectors via a provider fallback chain.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedrelay/internal/config"
	"github.com/fyrsmithlabs/embedrelay/internal/embeddings"
	"github.com/fyrsmithlabs/embedrelay/internal/httpapi"
	"github.com/fyrsmithlabs/embedrelay/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "embedrelayd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // stdout sync errors are harmless

	resolver, err := embeddings.New(embeddings.Config{
		PrimaryURL:       cfg.Embedding.PrimaryURL,
		InferenceBaseURL: cfg.Embedding.InferenceBaseURL,
		InferenceAPIKey:  cfg.Embedding.InferenceAPIKey.Value(),
		Model:            cfg.Embedding.Model,
		UseLocalModel:    cfg.Embedding.UseLocalModel,
		CacheDir:         cfg.Embedding.CacheDir,
	}, logger.Named("embeddings"))
	if err != nil {
		return fmt.Errorf("creating resolver: %w", err)
	}
	defer resolver.Close() //nolint:errcheck

	srv, err := httpapi.NewServer(resolver, logger.Named("http"), &httpapi.Config{
		Host:              cfg.Server.Host,
		Port:              cfg.Server.Port,
		DefaultDimensions: cfg.Embedding.TargetDimensions,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("embedrelay starting",
		zap.String("primary_url", cfg.Embedding.PrimaryURL),
		zap.Bool("use_local_model", cfg.Embedding.UseLocalModel),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("target_dimensions", cfg.Embedding.TargetDimensions))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("embedrelay stopped")
	return nil
}
