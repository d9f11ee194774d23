package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	out := Normalize([]float32{3, 4})
	assert.InDelta(t, 0.6, out[0], 1e-6)
	assert.InDelta(t, 0.8, out[1], 1e-6)

	zero := []float32{0, 0}
	assert.Equal(t, zero, Normalize(zero))
}

func TestOllamaProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		assert.Equal(t, "I know Django", req.Prompt)
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{0, 2, 0}})
	}))
	defer srv.Close()

	vec, err := NewOllamaProvider(srv.URL, "").Embed(context.Background(), "I know Django")
	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 1.0, math.Abs(float64(vec[1])), 1e-6)
}

func TestOllamaProvider_EmptyEmbedding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "").Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Config{})
	assert.NoError(t, err)
	assert.Nil(t, p)

	_, err = NewProvider(Config{Provider: "jina"})
	assert.Error(t, err)

	_, err = NewProvider(Config{Provider: "word2vec"})
	assert.Error(t, err)

	p, err = NewProvider(Config{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaProvider{}, p)
}

func TestJinaProvider_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jina_key", r.Header.Get("Authorization"))
		var req jinaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "jina-embeddings-v2-base-en", req.Model)
		_, _ = w.Write([]byte(`{"data":[{"embedding":[3,4]}]}`))
	}))
	defer srv.Close()

	p := NewJinaProvider("jina_key", "")
	p.endpoint = srv.URL
	vec, err := p.Embed(context.Background(), "Go and Postgres")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, vec[0], 1e-6)
}
