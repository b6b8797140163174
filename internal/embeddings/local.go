//go:build cgo

package embeddings

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	fastembed "github.com/anush008/fastembed-go"
	"go.uber.org/zap"
)

// LocalConfig holds configuration for the in-process provider.
type LocalConfig struct {
	// Model is the embedding model to load.
	// Supported: BAAI/bge-small-en-v1.5 (default), BAAI/bge-base-en-v1.5,
	// sentence-transformers/all-MiniLM-L6-v2.
	Model string

	// CacheDir is the directory to cache model files.
	CacheDir string

	// MaxLength is the maximum input sequence length in tokens.
	// Defaults to 512.
	MaxLength int
}

// localModelMapping maps model names to fastembed model constants.
var localModelMapping = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

// LocalProvider generates embeddings with an in-process ONNX model.
//
// The model is loaded lazily on first use and lives for the process
// lifetime. Loading happens exactly once even under concurrent first use;
// inference is serialized behind a read lock because the model handle is
// not guaranteed reentrant-safe.
type LocalProvider struct {
	cfg    LocalConfig
	logger *zap.Logger

	once    sync.Once
	initErr error
	model   *fastembed.FlagEmbedding
	closed  bool
	mu      sync.RWMutex
}

// NewLocalProvider creates the in-process provider. The model itself is
// not loaded until the first Embed call.
func NewLocalProvider(cfg LocalConfig, logger *zap.Logger) *LocalProvider {
	if cfg.Model == "" {
		cfg.Model = "BAAI/bge-small-en-v1.5"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(".", "local_cache")
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = 512
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{cfg: cfg, logger: logger}
}

// ensureModel performs the once-guarded lazy load.
func (p *LocalProvider) ensureModel() error {
	p.once.Do(func() {
		model, ok := localModelMapping[p.cfg.Model]
		if !ok {
			p.initErr = fmt.Errorf("%w: unsupported local model %q", ErrInvalidConfig, p.cfg.Model)
			return
		}

		p.logger.Info("loading local embedding model",
			zap.String("model", p.cfg.Model),
			zap.String("cache_dir", p.cfg.CacheDir))

		showProgress := false
		flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
			Model:                model,
			CacheDir:             p.cfg.CacheDir,
			MaxLength:            p.cfg.MaxLength,
			ShowDownloadProgress: &showProgress,
		})
		if err != nil {
			p.initErr = fmt.Errorf("initializing local model: %w", err)
			return
		}

		p.model = flagEmbed
		p.logger.Info("local embedding model loaded", zap.String("model", p.cfg.Model))
	})
	return p.initErr
}

// Name identifies the provider in logs, metrics, and errors.
func (p *LocalProvider) Name() string { return "local" }

// Embed runs an inference-only forward pass and normalizes the pooled,
// unit-norm output to targetDims. Tokenization truncates at MaxLength;
// masked mean pooling and L2 normalization happen inside the model
// runtime.
func (p *LocalProvider) Embed(ctx context.Context, text string, targetDims int) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, fmt.Errorf("%w: provider closed", ErrEmbeddingFailed)
	}

	if err := p.ensureModel(); err != nil {
		return nil, err
	}
	text = truncateInput(text)

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.model == nil {
		return nil, fmt.Errorf("%w: provider closed", ErrEmbeddingFailed)
	}

	vectors, err := p.model.Embed([]string{text}, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: model returned no vectors", ErrEmbeddingFailed)
	}

	return Normalize(vectors[0], targetDims), nil
}

// Close destroys the model handle if it was ever loaded. The provider
// is unusable afterward; Embed fails without attempting a lazy load.
func (p *LocalProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.model == nil {
		return nil
	}
	model := p.model
	p.model = nil
	return model.Destroy()
}
