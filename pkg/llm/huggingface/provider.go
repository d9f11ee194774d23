package huggingface

import (
	"context"
	"errors"
	"strings"
	"time"

	"talentscout-be/pkg/httpjson"
	"talentscout-be/pkg/llm"
)

const defaultBaseURL = "https://router.huggingface.co/v1"

// HuggingFaceProvider talks to any OpenAI-compatible /chat/completions
// endpoint, the Hugging Face router by default.
type HuggingFaceProvider struct {
	baseURL string
	model   string
	http    *httpjson.Client
}

var _ llm.LLMProvider = &HuggingFaceProvider{}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &HuggingFaceProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    httpjson.New("huggingface", 60*time.Second).WithBearer(apiKey),
	}
}

func (p *HuggingFaceProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: 500, Temperature: 0.7}, options...)

	messages := history
	if opts.System != "" {
		messages = append([]llm.Message{{Role: "system", Content: opts.System}}, history...)
	}

	var res completionResponse
	err := p.http.Post(ctx, p.baseURL+"/chat/completions", completionRequest{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	}, &res)
	switch {
	case err != nil:
		return "", err
	case res.Error != nil:
		return "", errors.New("huggingface: " + res.Error.Message)
	case len(res.Choices) == 0:
		return "", errors.New("huggingface: no choices returned")
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}
