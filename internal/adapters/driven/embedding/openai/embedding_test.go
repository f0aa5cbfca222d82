package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:            "test-key",
		BaseURL:           server.URL,
		RequestsPerSecond: 1000, // keep tests fast
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_KnownModelScheme(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "k"})
	require.NoError(t, err)

	version, dimensions := svc.Scheme()
	assert.Equal(t, 101, version)
	assert.Equal(t, 1536, dimensions)
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
}

func TestEmbedBatch_ReordersByIndex(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"first", "second"}, req.Input)
		assert.Equal(t, 1536, req.Dimensions)

		// Return the vectors out of order.
		resp := embedResponse{}
		resp.Data = make([]struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}, 2)
		resp.Data[0].Index = 1
		resp.Data[0].Embedding = markedVector(2.0)
		resp.Data[1].Index = 0
		resp.Data[1].Embedding = markedVector(1.0)
		json.NewEncoder(w).Encode(resp)
	})

	embeddings, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)
	assert.Equal(t, float32(1.0), embeddings[0][0])
	assert.Equal(t, float32(2.0), embeddings[1][0])
}

func markedVector(first float64) []float64 {
	v := make([]float64, 1536)
	v[0] = first
	return v
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty batch")
	})

	embeddings, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbedBatch_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "auth"},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"text"})
	assert.ErrorContains(t, err, "invalid api key")
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"text"})
	assert.ErrorContains(t, err, "expected 1 embeddings")
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, svc.Ping(context.Background()))
}
