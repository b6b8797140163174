package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newInferenceTestServer(t *testing.T, handler http.HandlerFunc) *InferenceAPIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	provider, err := NewInferenceAPIProvider(InferenceAPIConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "BAAI/bge-small-en-v1.5",
	}, zap.NewNop())
	require.NoError(t, err)
	return provider
}

func TestNewInferenceAPIProvider_RequiresModel(t *testing.T) {
	_, err := NewInferenceAPIProvider(InferenceAPIConfig{APIKey: "k"}, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewInferenceAPIProvider_DefaultBaseURL(t *testing.T) {
	provider, err := NewInferenceAPIProvider(InferenceAPIConfig{
		APIKey: "k",
		Model:  "BAAI/bge-small-en-v1.5",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultInferenceBaseURL, provider.cfg.BaseURL)
}

func TestInferenceAPIProvider_RequestShape(t *testing.T) {
	provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pipeline/feature-extraction/BAAI/bge-small-en-v1.5", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test document", req["inputs"])
		opts, ok := req["options"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, true, opts["wait_for_model"])

		w.Write([]byte(`[0.1, 0.2]`))
	})

	got, err := provider.Embed(context.Background(), "test document", 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, got)
}

func TestInferenceAPIProvider_NestedResponseUnwrapped(t *testing.T) {
	provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[0.4, 0.5]]`))
	})

	got, err := provider.Embed(context.Background(), "test", 2)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.4, 0.5}, got)
}

func TestInferenceAPIProvider_UnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"object", `{"error": "model loading"}`},
		{"string array", `["not", "floats"]`},
		{"empty array", `[]`},
		{"bare number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			_, err := provider.Embed(context.Background(), "test", 2)
			require.Error(t, err)

			var provErr *ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, "inference_api", provErr.Provider)
		})
	}
}

func TestInferenceAPIProvider_NonSuccessStatus(t *testing.T) {
	provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model is loading"))
	})

	_, err := provider.Embed(context.Background(), "test", 2)
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusServiceUnavailable, provErr.Status)
	assert.Contains(t, provErr.Body, "model is loading")
}

func TestInferenceAPIProvider_NormalizesDimensions(t *testing.T) {
	provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[0.1, 0.2, 0.3, 0.4, 0.5]]`))
	})

	got, err := provider.Embed(context.Background(), "test", 3)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got)
}

func TestInferenceAPIProvider_EmptyInput(t *testing.T) {
	provider := newInferenceTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called for empty input")
	})

	_, err := provider.Embed(context.Background(), "", 2)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestDecodeFeatureExtraction(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		result, err := decodeFeatureExtraction([]byte(`[0.1, 0.2]`))
		require.NoError(t, err)
		assert.Equal(t, []float32{0.1, 0.2}, result.Flat)
		assert.Nil(t, result.Nested)
		assert.Equal(t, []float32{0.1, 0.2}, result.vector())
	})

	t.Run("nested takes first element", func(t *testing.T) {
		result, err := decodeFeatureExtraction([]byte(`[[0.4, 0.5], [0.6, 0.7]]`))
		require.NoError(t, err)
		assert.Nil(t, result.Flat)
		assert.Equal(t, []float32{0.4, 0.5}, result.vector())
	})

	t.Run("neither shape", func(t *testing.T) {
		_, err := decodeFeatureExtraction([]byte(`{"a": 1}`))
		assert.Error(t, err)
	})
}
