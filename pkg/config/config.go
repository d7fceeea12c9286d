package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GitHub  GitHubConfig
	LLM     LLMConfig
	Extract ExtractConfig
}

type GitHubConfig struct {
	Token      string
	Repository string
	EventPath  string
	APIURL     string
}

type LLMConfig struct {
	Provider      string
	Model         string
	BaseURL       string
	APIKey        string
	PromptVariant string
}

type ExtractConfig struct {
	Workers      int
	CacheSize    int
	FetchTimeout time.Duration
}

const (
	defaultAPIURL        = "https://api.github.com"
	defaultProvider      = "openai"
	defaultOpenAIModel   = "gpt-4o"
	defaultOllamaModel   = "qwen2.5-coder"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultVariant       = "default"
)

// Load reads configuration from the environment, letting a local .env file
// supply values outside CI. Action inputs arrive as INPUT_* variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	repository := strings.TrimSpace(os.Getenv("GITHUB_REPOSITORY"))
	if repository == "" {
		return nil, fmt.Errorf("GITHUB_REPOSITORY environment variable not set")
	}

	eventPath := strings.TrimSpace(os.Getenv("GITHUB_EVENT_PATH"))
	if eventPath == "" {
		return nil, fmt.Errorf("GITHUB_EVENT_PATH environment variable not set")
	}

	provider := firstNonEmpty(os.Getenv("INPUT_LLM_PROVIDER"), defaultProvider)

	cfg := &Config{
		GitHub: GitHubConfig{
			Token:      os.Getenv("INPUT_GITHUB_TOKEN"),
			Repository: repository,
			EventPath:  eventPath,
			APIURL:     firstNonEmpty(os.Getenv("GITHUB_API_URL"), defaultAPIURL),
		},
		LLM: LLMConfig{
			Provider:      provider,
			Model:         firstNonEmpty(os.Getenv("INPUT_LLM_MODEL"), defaultModel(provider)),
			BaseURL:       firstNonEmpty(os.Getenv("INPUT_LLM_BASE_URL"), defaultBaseURL(provider)),
			APIKey:        apiKey(provider),
			PromptVariant: firstNonEmpty(os.Getenv("INPUT_PROMPT_VARIANT"), defaultVariant),
		},
		Extract: ExtractConfig{
			Workers:      envInt("INPUT_WORKERS"),
			CacheSize:    envInt("INPUT_CACHE_SIZE"),
			FetchTimeout: time.Duration(envInt("INPUT_FETCH_TIMEOUT_SECONDS")) * time.Second,
		},
	}

	return cfg, nil
}

func defaultModel(provider string) string {
	switch provider {
	case "ollama":
		return defaultOllamaModel
	case "gemini":
		return defaultGeminiModel
	default:
		return defaultOpenAIModel
	}
}

func defaultBaseURL(provider string) string {
	switch provider {
	case "ollama":
		return defaultOllamaBaseURL
	default:
		return ""
	}
}

func apiKey(provider string) string {
	switch provider {
	case "gemini":
		return firstNonEmpty(os.Getenv("INPUT_GEMINI_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	case "openai":
		return firstNonEmpty(os.Getenv("INPUT_OPENAI_API_KEY"), os.Getenv("OPENAI_API_KEY"))
	default:
		return ""
	}
}

func envInt(name string) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
