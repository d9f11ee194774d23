package embedding

import (
	"context"
	"errors"
	"time"

	"talentscout-be/pkg/httpjson"
)

const jinaEndpoint = "https://api.jina.ai/v1/embeddings"

// JinaProvider is the hosted option. jina-embeddings-v2-base-en returns 768
// dimensions, the same as nomic-embed-text.
type JinaProvider struct {
	endpoint string
	model    string
	http     *httpjson.Client
}

type jinaRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type jinaResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewJinaProvider(apiKey, model string) *JinaProvider {
	if model == "" || model == "nomic-embed-text" {
		model = "jina-embeddings-v2-base-en"
	}
	return &JinaProvider{
		endpoint: jinaEndpoint,
		model:    model,
		http:     httpjson.New("jina", 30*time.Second).WithBearer(apiKey),
	}
}

func (p *JinaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	var res jinaResponse
	if err := p.http.Post(ctx, p.endpoint, jinaRequest{Model: p.model, Input: []string{text}}, &res); err != nil {
		return nil, err
	}
	if res.Error != nil {
		return nil, errors.New("jina: " + res.Error.Message)
	}
	if len(res.Data) == 0 {
		return nil, errors.New("jina: no embeddings returned")
	}
	return Normalize(res.Data[0].Embedding), nil
}
