package embedding

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// Dimensions matches the vector(768) column on conversation_messages.
const Dimensions = 768

// EmbeddingProvider turns text into a unit-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	Provider string // "ollama", "jina" or "" to disable
	Model    string
	BaseURL  string
	APIKey   string
}

// NewProvider returns nil, nil when embeddings are disabled.
func NewProvider(cfg Config) (EmbeddingProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "ollama":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "jina":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("jina embeddings require EMBEDDING_API_KEY")
		}
		return NewJinaProvider(cfg.APIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// Normalize scales vec to unit length; pgvector cosine distance assumes it.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
