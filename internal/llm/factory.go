package llm

import (
	"context"
	"fmt"
)

type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
)

type ProviderConfig struct {
	Type    ProviderType
	Model   string
	BaseURL string
	APIKey  string
}

func NewProvider(ctx context.Context, config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderOllama:
		return NewOllamaProvider(config.BaseURL, config.Model), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(config.BaseURL, config.Model, config.APIKey), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, config.APIKey, config.Model)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
