package embeddings

import (
	"context"
	"errors"
	"fmt"
)

const (
	// DefaultDimensions is the embedding dimensionality used when the
	// caller does not request one. Matches gte-small / bge-small models.
	DefaultDimensions = 384

	// maxInputChars caps the input text sent to any provider, counted
	// in characters, not bytes. Longer input is truncated silently,
	// never rejected.
	maxInputChars = 8000
)

var (
	// ErrEmptyInput indicates empty input text.
	ErrEmptyInput = errors.New("empty input text")

	// ErrInvalidConfig indicates invalid provider configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")
)

// Provider is the interface all embedding providers implement.
//
// Embed returns a vector of exactly targetDims elements on success.
// Providers truncate over-long input and normalize their raw output;
// callers never see a vector of any other length.
type Provider interface {
	Embed(ctx context.Context, text string, targetDims int) ([]float32, error)
	// Name identifies the provider in logs, metrics, and errors.
	Name() string
	// Close releases resources held by the provider.
	Close() error
}

// ProviderError describes a failure reported by a specific provider:
// a non-2xx status, a missing response field, or an unrecognized
// response shape. Status is 0 when no HTTP status applies.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
	Reason   string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Reason, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Reason)
}

// Unwrap makes ProviderError match ErrEmbeddingFailed via errors.Is.
func (e *ProviderError) Unwrap() error {
	return ErrEmbeddingFailed
}

// truncateInput enforces the provider character cap. The cut falls on a
// rune boundary so truncated input stays valid UTF-8.
func truncateInput(text string) string {
	if len(text) <= maxInputChars {
		return text
	}
	count := 0
	for i := range text {
		if count == maxInputChars {
			return text[:i]
		}
		count++
	}
	return text
}
