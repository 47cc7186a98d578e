package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Generation backends
const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

// Store backends
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
)

const defaultGalleryLimit = 12

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Generation backend
	GenerationBackend string // "openai" or "gemini"
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	GeminiAPIKey      string
	GeminiModel       string

	// Prompt store
	StoreBackend    string // "supabase" or "postgres"
	SupabaseURL     string
	SupabaseAnonKey string
	DatabaseURL     string
	GalleryLimit    int

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse
}

func Load() *Config {
	return &Config{
		Environment:       getEnv("ENVIRONMENT", "development"),
		Port:              getEnv("PORT", "8080"),
		GenerationBackend: strings.ToLower(getEnv("GENERATION_BACKEND", BackendOpenAI)),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", StoreSupabase)),
		SupabaseURL:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:   getEnv("SUPABASE_ANON_KEY", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		GalleryLimit:      getEnvInt("GALLERY_LIMIT", defaultGalleryLimit),
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// ConfigurationError lists every required setting that is absent or invalid
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return fmt.Sprintf("configuration error: %s", strings.Join(parts, "; "))
}

// Validate checks that the selected backends have their credentials.
// It returns a *ConfigurationError or nil.
func (c *Config) Validate() error {
	cfgErr := &ConfigurationError{}

	switch c.GenerationBackend {
	case BackendOpenAI:
		if c.OpenAIAPIKey == "" {
			cfgErr.Missing = append(cfgErr.Missing, "OPENAI_API_KEY")
		}
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			cfgErr.Missing = append(cfgErr.Missing, "GEMINI_API_KEY")
		}
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, "GENERATION_BACKEND="+c.GenerationBackend)
	}

	switch c.StoreBackend {
	case StoreSupabase:
		if c.SupabaseURL == "" {
			cfgErr.Missing = append(cfgErr.Missing, "SUPABASE_URL")
		}
		if c.SupabaseAnonKey == "" {
			cfgErr.Missing = append(cfgErr.Missing, "SUPABASE_ANON_KEY")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			cfgErr.Missing = append(cfgErr.Missing, "DATABASE_URL")
		}
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, "STORE_BACKEND="+c.StoreBackend)
	}

	if c.LangfuseEnabled && (c.LangfusePublicKey == "" || c.LangfuseSecretKey == "") {
		if c.LangfusePublicKey == "" {
			cfgErr.Missing = append(cfgErr.Missing, "LANGFUSE_PUBLIC_KEY")
		}
		if c.LangfuseSecretKey == "" {
			cfgErr.Missing = append(cfgErr.Missing, "LANGFUSE_SECRET_KEY")
		}
	}

	if len(cfgErr.Missing) == 0 && len(cfgErr.Invalid) == 0 {
		return nil
	}
	return cfgErr
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
