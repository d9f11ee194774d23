package factory

import (
	"fmt"
	"strings"

	"talentscout-be/pkg/llm"
	"talentscout-be/pkg/llm/huggingface"
	"talentscout-be/pkg/llm/ollama"
)

type Config struct {
	Provider string // "ollama", "huggingface" or "none"
	Model    string
	BaseURL  string
	APIKey   string
}

// NewLLMProvider returns nil, nil for "none" so callers fall back to static
// text.
func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "huggingface":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("huggingface provider requires LLM_API_KEY")
		}
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
