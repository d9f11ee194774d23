package ollama

import (
	"context"
	"errors"
	"strings"
	"time"

	"talentscout-be/pkg/httpjson"
	"talentscout-be/pkg/llm"
)

type OllamaProvider struct {
	baseURL string
	model   string
	http    *httpjson.Client
}

var _ llm.LLMProvider = &OllamaProvider{}

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelName,
		http:    httpjson.New("ollama", 60*time.Second),
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// toOllamaRoles maps the "model" role used elsewhere to Ollama's "assistant".
func toOllamaRoles(system string, history []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	if system != "" {
		out = append(out, llm.Message{Role: "system", Content: system})
	}
	for _, m := range history {
		if m.Role == "model" {
			m.Role = "assistant"
		}
		out = append(out, m)
	}
	return out
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7, Model: o.model}, opts...)

	req := chatRequest{
		Model:    options.Model,
		Messages: toOllamaRoles(options.System, history),
		Options:  &chatOptions{Temperature: options.Temperature, NumPredict: options.MaxTokens},
	}
	var res chatResponse
	if err := o.http.Post(ctx, o.baseURL+"/api/chat", req, &res); err != nil {
		return "", err
	}
	if res.Error != "" {
		return "", errors.New("ollama: " + res.Error)
	}
	return strings.TrimSpace(res.Message.Content), nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
