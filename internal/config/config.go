// Package config provides configuration loading for embedrelay.
//
// Configuration is resolved once at process start: hardcoded defaults,
// overridden by an optional YAML file, overridden by environment
// variables. There is no runtime reconfiguration.
package config

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/embedrelay/internal/logging"
)

// Config holds the complete embedrelay configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   logging.Config  `koanf:"logging"`
	Embedding EmbeddingConfig `koanf:"embedding"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// EmbeddingConfig holds embedding resolver configuration.
type EmbeddingConfig struct {
	// PrimaryURL is the primary embedding endpoint.
	PrimaryURL string `koanf:"primary_url"`

	// InferenceBaseURL is the hosted inference service root. Empty
	// selects the public HuggingFace host.
	InferenceBaseURL string `koanf:"inference_base_url"`

	// InferenceAPIKey is the bearer token for the hosted service.
	InferenceAPIKey Secret `koanf:"inference_api_key"`

	// Model is the embedding model identifier, shared by the hosted and
	// local providers.
	Model string `koanf:"model"`

	// UseLocalModel selects the in-process model as the fallback
	// provider instead of the hosted inference API.
	UseLocalModel bool `koanf:"use_local_model"`

	// CacheDir is the local model cache directory.
	CacheDir string `koanf:"cache_dir"`

	// TargetDimensions is the default output dimensionality when a
	// request does not specify one.
	TargetDimensions int `koanf:"target_dimensions"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            9190,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: logging.NewDefaultConfig(),
		Embedding: EmbeddingConfig{
			Model:            "BAAI/bge-small-en-v1.5",
			CacheDir:         "local_cache",
			TargetDimensions: 384,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port must be in 1..65535, got %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Embedding.PrimaryURL == "" {
		return fmt.Errorf("embedding: primary_url is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding: model is required")
	}
	if c.Embedding.TargetDimensions <= 0 {
		return fmt.Errorf("embedding: target_dimensions must be positive, got %d", c.Embedding.TargetDimensions)
	}
	if !c.Embedding.UseLocalModel && !c.Embedding.InferenceAPIKey.IsSet() {
		return fmt.Errorf("embedding: inference_api_key is required when use_local_model is false")
	}
	return nil
}
