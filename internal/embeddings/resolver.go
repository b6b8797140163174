package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/embedrelay/internal/logging"
)

// Resolver orchestrates the provider fallback chain.
//
// The chain is linear with no retries: the primary is tried once, and on
// any failure the single configured secondary is tried once. The
// secondary's failure propagates to the caller.
type Resolver struct {
	primary  Provider
	fallback Provider
	logger   *zap.Logger
	metrics  *Metrics
}

// NewResolver creates a resolver over an explicit primary/secondary pair.
func NewResolver(primary, fallback Provider, logger *zap.Logger) (*Resolver, error) {
	if primary == nil {
		return nil, fmt.Errorf("%w: primary provider required", ErrInvalidConfig)
	}
	if fallback == nil {
		return nil, fmt.Errorf("%w: fallback provider required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		metrics:  NewMetrics(logger),
	}, nil
}

// GetEmbedding resolves text to a vector of exactly targetDims elements,
// or fails when both the primary and the secondary provider fail.
// targetDims <= 0 selects DefaultDimensions.
func (r *Resolver) GetEmbedding(ctx context.Context, text string, targetDims int) ([]float32, error) {
	if targetDims <= 0 {
		targetDims = DefaultDimensions
	}

	reqID := logging.RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = logging.WithRequestID(ctx, reqID)
	}
	log := r.logger.With(zap.String("request_id", reqID))

	start := time.Now()
	vec, primaryErr := r.primary.Embed(ctx, text, targetDims)
	r.metrics.RecordEmbed(ctx, r.primary.Name(), "primary", time.Since(start), primaryErr)
	if primaryErr == nil {
		return vec, nil
	}

	log.Warn("primary embedding provider failed, falling back",
		zap.String("primary", r.primary.Name()),
		zap.String("fallback", r.fallback.Name()),
		zap.Error(primaryErr))
	r.metrics.RecordFallback(ctx, r.primary.Name(), r.fallback.Name())

	start = time.Now()
	vec, err := r.fallback.Embed(ctx, text, targetDims)
	r.metrics.RecordEmbed(ctx, r.fallback.Name(), "fallback", time.Since(start), err)
	if err != nil {
		// Both reasons surface; the secondary's stays unwrappable.
		return nil, fmt.Errorf("%s provider: %w (primary %s: %v)",
			r.fallback.Name(), err, r.primary.Name(), primaryErr)
	}

	log.Info("embedding resolved via fallback provider",
		zap.String("provider", r.fallback.Name()),
		zap.Int("dimensions", len(vec)))
	return vec, nil
}

// Close closes both providers.
func (r *Resolver) Close() error {
	var errs []error
	if err := r.primary.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := r.fallback.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing providers: %v", errs)
	}
	return nil
}
