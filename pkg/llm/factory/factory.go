package factory

import (
	"fmt"
	"time"

	"ideaspark-be/internal/pkg/logger"
	"ideaspark-be/pkg/llm"
	"ideaspark-be/pkg/llm/gemini"
	"ideaspark-be/pkg/llm/ollama"
	"ideaspark-be/pkg/llm/openai"
	"ideaspark-be/pkg/llm/resilience"
)

type ProviderConfig struct {
	Type              string // "openai", "gemini", "huggingface" or "ollama"
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// NewLLMProvider builds the configured provider behind a rate limiter and a
// circuit breaker.
func NewLLMProvider(cfg ProviderConfig, log logger.ILogger) (llm.LLMProvider, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}

	var provider llm.LLMProvider
	switch cfg.Type {
	case "openai":
		provider = openai.NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	case "huggingface":
		provider = openai.NewHuggingFaceProvider(cfg.APIKey, cfg.Model, cfg.Timeout)
	case "gemini":
		provider = gemini.NewGeminiProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout)
	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		provider = ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Type)
	}

	limited := resilience.NewRateLimited(provider, cfg.RequestsPerMinute)
	return resilience.NewBreaker(limited, resilience.DefaultBreakerConfig(cfg.Type), log), nil
}
