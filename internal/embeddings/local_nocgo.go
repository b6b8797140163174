//go:build !cgo

package embeddings

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrLocalNotAvailable is returned when the in-process model cannot be
// used because the binary was built without CGO.
var ErrLocalNotAvailable = errors.New("local embeddings: not available (binary built without CGO; install the ONNX runtime shared library and rebuild with CGO_ENABLED=1, or disable local mode to fall back to the inference API)")

// LocalConfig holds configuration for the in-process provider.
type LocalConfig struct {
	Model     string
	CacheDir  string
	MaxLength int
}

// LocalProvider is a stub for non-CGO builds.
type LocalProvider struct{}

// NewLocalProvider returns a stub whose Embed always fails with
// ErrLocalNotAvailable.
func NewLocalProvider(_ LocalConfig, _ *zap.Logger) *LocalProvider {
	return &LocalProvider{}
}

// Name identifies the provider in logs, metrics, and errors.
func (p *LocalProvider) Name() string { return "local" }

// Embed returns an error when CGO is not available.
func (p *LocalProvider) Embed(_ context.Context, _ string, _ int) ([]float32, error) {
	return nil, ErrLocalNotAvailable
}

// Close is a no-op when CGO is not available.
func (p *LocalProvider) Close() error { return nil }
