package recall

import (
	"context"
	"fmt"
	"strings"

	"talentscout-be/internal/entity"
	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/embedding"
)

// Searcher is the slice of the candidate store the retriever needs.
type Searcher interface {
	SearchConversation(ctx context.Context, candidateId string, embedding []float32, k int) ([]*entity.ConversationMatch, error)
}

type Config struct {
	TopK int
	// MaxDistance drops matches further than this cosine distance; 0 keeps all.
	MaxDistance float64
}

func DefaultConfig() Config {
	return Config{
		TopK:        3,
		MaxDistance: 0.65,
	}
}

// Retriever finds earlier turns of one candidate's conversation by meaning.
// A nil *Retriever is valid and behaves as if recall were switched off.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	searcher Searcher
	config   Config
	logger   logger.ILogger
}

// NewRetriever returns nil when there is no embedder.
func NewRetriever(embedder embedding.EmbeddingProvider, searcher Searcher, config Config, log logger.ILogger) *Retriever {
	if embedder == nil || searcher == nil {
		return nil
	}
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	return &Retriever{
		embedder: embedder,
		searcher: searcher,
		config:   config,
		logger:   log,
	}
}

func (r *Retriever) Enabled() bool {
	return r != nil
}

// Embed returns nil on failure so the turn is stored without a vector.
func (r *Retriever) Embed(ctx context.Context, text string) []float32 {
	if r == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("RECALL", "Embedding failed, storing turn without vector", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	if len(vec) != embedding.Dimensions {
		r.logger.Warn("RECALL", "Embedding has unexpected dimensions", map[string]interface{}{
			"got":      len(vec),
			"expected": embedding.Dimensions,
		})
		return nil
	}
	return vec
}

// Query returns up to k earlier turns formatted as "role: content", closest
// first. k <= 0 uses the configured TopK.
func (r *Retriever) Query(ctx context.Context, candidateId, text string, k int) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	if k <= 0 {
		k = r.config.TopK
	}

	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed recall query: %w", err)
	}
	matches, err := r.searcher.SearchConversation(ctx, candidateId, vec, k)
	if err != nil {
		return nil, fmt.Errorf("search conversation: %w", err)
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		if r.config.MaxDistance > 0 && m.Distance > r.config.MaxDistance {
			continue
		}
		lines = append(lines, m.Message.Role+": "+m.Message.Content)
	}
	return lines, nil
}
