package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Local    LocalConfig
	Auth     AuthConfig
	Keys     APIKeys
	Tracing  TracingConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string // Optional, shares the in-flight guard between instances
	WorkspaceTTLHours  int
	ServiceName        string
}

type DatabaseConfig struct {
	Connection   string // Remote credentials. Empty means local storage only.
	ProbeTimeout int    // Seconds
}

type LocalConfig struct {
	Path string
}

type AuthConfig struct {
	Provider    string // "jwt" or "supabase"
	JWTSecret   string
	SupabaseURL string
	SupabaseKey string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
	Insecure bool
}

type APIKeys struct {
	OpenAI       string
	GoogleGemini string
	HuggingFace  string
}

type AIConfig struct {
	LLMProvider       string // "openai", "gemini", "huggingface" or "ollama"
	OpenAIBaseURL     string
	GeminiBaseURL     string
	OllamaBaseURL     string
	ResearchModel     string
	StructureModel    string
	ImprovementModel  string
	SpecModel         string
	SpecReasoning     string // reasoning_effort sent with the SRS request
	RequestsPerMinute int
	TimeoutSeconds    int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/ideaspark.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", ""),
			WorkspaceTTLHours:  getEnvAsInt("WORKSPACE_TTL_HOURS", 24),
			ServiceName:        getEnv("OTEL_SERVICE_NAME", "ideaspark-backend"),
		},
		Database: DatabaseConfig{
			Connection:   getEnv("DB_CONNECTION_STRING", ""),
			ProbeTimeout: getEnvAsInt("DB_PROBE_TIMEOUT_SECONDS", 5),
		},
		Local: LocalConfig{
			Path: getEnv("LOCAL_STORE_PATH", "data/ideaspark.db"),
		},
		Auth: AuthConfig{
			Provider:    getEnv("AUTH_PROVIDER", "jwt"),
			JWTSecret:   getEnv("SUPABASE_JWT_SECRET", ""),
			SupabaseURL: getEnv("SUPABASE_URL", ""),
			SupabaseKey: getEnv("SUPABASE_ANON_KEY", ""),
		},
		Tracing: TracingConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			Insecure: getEnv("OTEL_EXPORTER_OTLP_INSECURE", "true") == "true",
		},
		Keys: APIKeys{
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ResearchModel:     getEnv("LLM_RESEARCH_MODEL", "gpt-4o"),
			StructureModel:    getEnv("LLM_STRUCTURE_MODEL", "gpt-4o-mini"),
			ImprovementModel:  getEnv("LLM_IMPROVEMENT_MODEL", "gpt-4o-mini"),
			SpecModel:         getEnv("LLM_SPEC_MODEL", "o3-mini"),
			SpecReasoning:     getEnv("LLM_SPEC_REASONING_EFFORT", "high"),
			RequestsPerMinute: getEnvAsInt("LLM_REQUESTS_PER_MINUTE", 30),
			TimeoutSeconds:    getEnvAsInt("LLM_TIMEOUT_SECONDS", 180),
		},
	}
}

// ProviderKey returns the API key matching the configured LLM provider.
func (c *Config) ProviderKey() string {
	switch c.Ai.LLMProvider {
	case "gemini":
		return c.Keys.GoogleGemini
	case "huggingface":
		return c.Keys.HuggingFace
	case "ollama":
		return ""
	default:
		return c.Keys.OpenAI
	}
}

// ProviderBaseURL returns the base URL matching the configured LLM provider.
func (c *Config) ProviderBaseURL() string {
	switch c.Ai.LLMProvider {
	case "gemini":
		return c.Ai.GeminiBaseURL
	case "ollama":
		return c.Ai.OllamaBaseURL
	case "huggingface":
		return ""
	default:
		return c.Ai.OpenAIBaseURL
	}
}

// RemoteConfigured reports whether remote credentials are present at all.
func (c *Config) RemoteConfigured() bool {
	return c.Database.Connection != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
