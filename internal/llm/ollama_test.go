package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var reqBody ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "test-model", reqBody.Model)
		assert.False(t, reqBody.Stream)

		w.WriteHeader(http.StatusOK)
		err := json.NewEncoder(w).Encode(ollamaResponse{Response: "Result: FAIL", Done: true})
		require.NoError(t, err)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test-model")
	result, err := provider.Generate(context.Background(), "test prompt")

	assert.NoError(t, err)
	assert.Equal(t, "Result: FAIL", result)
}

func TestOllamaProvider_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "test-model")
	_, err := provider.Generate(context.Background(), "test prompt")
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name         string
		config       ProviderConfig
		expectError  bool
		expectedType any
	}{
		{
			name:         "ollama provider",
			config:       ProviderConfig{Type: ProviderOllama, Model: "llama3", BaseURL: "http://localhost:11434"},
			expectedType: &OllamaProvider{},
		},
		{
			name:         "openai provider",
			config:       ProviderConfig{Type: ProviderOpenAI, Model: "gpt-4o", APIKey: "key"},
			expectedType: &OpenAIProvider{},
		},
		{
			name:        "unsupported provider",
			config:      ProviderConfig{Type: "anthropic"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(context.Background(), tt.config)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.IsType(t, tt.expectedType, provider)
		})
	}
}
