package embeddings

import (
	"go.uber.org/zap"
)

// Config holds configuration for building the resolver and its providers.
// Resolved once at startup; immutable afterward.
type Config struct {
	// PrimaryURL is the primary embedding endpoint.
	PrimaryURL string

	// InferenceBaseURL is the hosted inference service root (optional,
	// defaults to the public host).
	InferenceBaseURL string

	// InferenceAPIKey is the bearer token for the hosted service.
	InferenceAPIKey string

	// Model is the model identifier, used by both the hosted inference
	// provider and the local provider.
	Model string

	// UseLocalModel selects the in-process model as the fallback
	// provider instead of the hosted inference API.
	UseLocalModel bool

	// CacheDir is the local model cache directory.
	CacheDir string
}

// New builds the resolver from configuration: the remote endpoint as
// primary, and either the local model or the hosted inference API as the
// single fallback.
func New(cfg Config, logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	primary, err := NewRemoteProvider(cfg.PrimaryURL, logger.Named("remote"))
	if err != nil {
		return nil, err
	}

	var fallback Provider
	if cfg.UseLocalModel {
		fallback = NewLocalProvider(LocalConfig{
			Model:    cfg.Model,
			CacheDir: cfg.CacheDir,
		}, logger.Named("local"))
	} else {
		fallback, err = NewInferenceAPIProvider(InferenceAPIConfig{
			BaseURL: cfg.InferenceBaseURL,
			APIKey:  cfg.InferenceAPIKey,
			Model:   cfg.Model,
		}, logger.Named("inference"))
		if err != nil {
			return nil, err
		}
	}

	return NewResolver(primary, fallback, logger)
}
