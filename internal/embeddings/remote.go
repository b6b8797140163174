package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const remoteTimeout = 30 * time.Second

// RemoteProvider calls the primary embedding endpoint over HTTP.
//
// Wire format: POST {"text": <string>} to the configured URL, expecting
// {"embedding": [<float>, ...]} back.
type RemoteProvider struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewRemoteProvider creates the primary HTTP provider.
func NewRemoteProvider(url string, logger *zap.Logger) (*RemoteProvider, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: remote endpoint URL required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteProvider{
		url:    url,
		client: &http.Client{Timeout: remoteTimeout},
		logger: logger,
	}, nil
}

// remoteRequest is the request body for the primary endpoint.
type remoteRequest struct {
	Text string `json:"text"`
}

// remoteResponse is the response body for the primary endpoint.
// Embedding is a pointer to distinguish a missing field from an empty one.
type remoteResponse struct {
	Embedding *[]float32 `json:"embedding"`
}

// Name identifies the provider in logs, metrics, and errors.
func (p *RemoteProvider) Name() string { return "remote" }

// Close is a no-op; the provider holds no resources beyond the HTTP client.
func (p *RemoteProvider) Close() error { return nil }

// Embed generates an embedding via the primary endpoint and normalizes
// it to targetDims.
func (p *RemoteProvider) Embed(ctx context.Context, text string, targetDims int) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	text = truncateInput(text)

	body, err := json.Marshal(remoteRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &ProviderError{
			Provider: p.Name(),
			Status:   resp.StatusCode,
			Body:     string(respBody),
			Reason:   "request failed",
		}
	}

	var parsed remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if parsed.Embedding == nil {
		return nil, &ProviderError{
			Provider: p.Name(),
			Status:   resp.StatusCode,
			Reason:   "response missing 'embedding' field",
		}
	}

	vec := Normalize(*parsed.Embedding, targetDims)
	p.logger.Debug("remote embedding generated",
		zap.Int("status", resp.StatusCode),
		zap.Int("dimensions", len(vec)))
	return vec, nil
}
