package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"talentscout-be/internal/pkg/logger"
	"talentscout-be/pkg/embedding"
	"talentscout-be/pkg/interview"
	"talentscout-be/pkg/llm/factory"
	"talentscout-be/pkg/screening"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a local Ollama server. Set OLLAMA_BASE_URL to enable.
func TestOllamaScreeningPrompts(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	provider, err := factory.NewLLMProvider(factory.Config{Provider: "ollama", Model: model, BaseURL: baseURL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()
	log := logger.NewNopLogger()

	t.Run("Questions", func(t *testing.T) {
		questions := interview.NewQuestionGenerator(provider, log)
		got, err := questions.Generate(ctx, []string{"Python", "Django"}, screening.BucketIntermediate, 3)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got), 3)
		for _, q := range got {
			assert.NotEmpty(t, q)
		}
	})

	t.Run("Evaluation", func(t *testing.T) {
		messenger := interview.NewMessenger(provider, "TalentScout", log)
		out, err := messenger.Evaluate(ctx, "How do you avoid N+1 queries in Django?",
			"select_related for foreign keys and prefetch_related for many-to-many", []string{"Django"})
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})
}

func TestOllamaEmbeddings(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		t.Skip("Skipping integration test: OLLAMA_BASE_URL not set")
	}

	provider, err := embedding.NewProvider(embedding.Config{Provider: "ollama", BaseURL: baseURL, Model: "nomic-embed-text"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	vec, err := provider.Embed(ctx, "I have four years of backend experience")
	require.NoError(t, err)
	assert.Len(t, vec, embedding.Dimensions)
}
