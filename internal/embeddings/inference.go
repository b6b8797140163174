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

const (
	// DefaultInferenceBaseURL is the hosted feature-extraction service.
	DefaultInferenceBaseURL = "https://api-inference.huggingface.co"

	// Longer than the primary's timeout: the hosted service may need to
	// cold-start the model (wait_for_model).
	inferenceTimeout = 60 * time.Second
)

// InferenceAPIConfig holds configuration for the hosted inference provider.
type InferenceAPIConfig struct {
	// BaseURL is the inference service root. Defaults to the public
	// HuggingFace inference host.
	BaseURL string
	// APIKey is the bearer token for the service.
	APIKey string
	// Model is the feature-extraction model identifier.
	Model string
}

// InferenceAPIProvider calls a hosted feature-extraction pipeline.
type InferenceAPIProvider struct {
	cfg    InferenceAPIConfig
	client *http.Client
	logger *zap.Logger
}

// NewInferenceAPIProvider creates the hosted inference provider.
func NewInferenceAPIProvider(cfg InferenceAPIConfig, logger *zap.Logger) (*InferenceAPIProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: inference model required", ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultInferenceBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InferenceAPIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: inferenceTimeout},
		logger: logger,
	}, nil
}

// inferenceRequest is the feature-extraction request body.
type inferenceRequest struct {
	Inputs  string           `json:"inputs"`
	Options inferenceOptions `json:"options"`
}

type inferenceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// featureExtraction is the decoded response in one of its two valid
// shapes: a flat vector, or a batch containing exactly our single input.
type featureExtraction struct {
	Flat   []float32
	Nested [][]float32
}

// decodeFeatureExtraction parses the response body into a tagged result.
// The service returns either [f, f, ...] or [[f, f, ...]]; anything else
// is rejected here rather than at unwrap time.
func decodeFeatureExtraction(data []byte) (featureExtraction, error) {
	var nested [][]float32
	if err := json.Unmarshal(data, &nested); err == nil && len(nested) > 0 {
		return featureExtraction{Nested: nested}, nil
	}

	var flat []float32
	if err := json.Unmarshal(data, &flat); err == nil && len(flat) > 0 {
		return featureExtraction{Flat: flat}, nil
	}

	return featureExtraction{}, fmt.Errorf("unrecognized response shape")
}

// vector unwraps the tagged result to a single raw vector.
func (f featureExtraction) vector() []float32 {
	if f.Flat != nil {
		return f.Flat
	}
	return f.Nested[0]
}

// Name identifies the provider in logs, metrics, and errors.
func (p *InferenceAPIProvider) Name() string { return "inference_api" }

// Close is a no-op; the provider holds no resources beyond the HTTP client.
func (p *InferenceAPIProvider) Close() error { return nil }

// Embed generates an embedding via the hosted feature-extraction pipeline
// and normalizes it to targetDims.
func (p *InferenceAPIProvider) Embed(ctx context.Context, text string, targetDims int) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	text = truncateInput(text)

	body, err := json.Marshal(inferenceRequest{
		Inputs:  text,
		Options: inferenceOptions{WaitForModel: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := p.cfg.BaseURL + "/pipeline/feature-extraction/" + p.cfg.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider: p.Name(),
			Status:   resp.StatusCode,
			Body:     string(respBody),
			Reason:   "request failed",
		}
	}

	result, err := decodeFeatureExtraction(respBody)
	if err != nil {
		return nil, &ProviderError{
			Provider: p.Name(),
			Status:   resp.StatusCode,
			Body:     string(respBody),
			Reason:   err.Error(),
		}
	}

	vec := Normalize(result.vector(), targetDims)
	p.logger.Debug("inference API embedding generated",
		zap.String("model", p.cfg.Model),
		zap.Int("dimensions", len(vec)))
	return vec, nil
}
