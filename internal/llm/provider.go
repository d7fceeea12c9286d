package llm

import "context"

type Provider interface {
	GetModel() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

var SupportedProviders = []string{"ollama", "openai", "gemini"}
