package embedding

import (
	"context"
	"errors"
	"strings"
	"time"

	"talentscout-be/pkg/httpjson"
)

// OllamaProvider embeds with a local Ollama model such as nomic-embed-text.
type OllamaProvider struct {
	baseURL string
	model   string
	http    *httpjson.Client
}

func NewOllamaProvider(baseURL string, model string) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "nomic-embed-text"
	}
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    httpjson.New("ollama embeddings", 30*time.Second),
	}
}

type ollamaEmbeddingRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var res ollamaEmbeddingResponse
	if err := p.http.Post(ctx, p.baseURL+"/api/embeddings", ollamaEmbeddingRequest{Model: p.model, Prompt: text}, &res); err != nil {
		return nil, err
	}
	if len(res.Embedding) == 0 {
		return nil, errors.New("ollama embeddings: empty vector")
	}

	values := make([]float32, len(res.Embedding))
	for i, v := range res.Embedding {
		values[i] = float32(v)
	}
	return Normalize(values), nil
}
