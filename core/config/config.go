package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Port      string
	OTel      OTelConfig
	Redis     RedisConfig
	Jobs      JobsConfig
	Limits    LimitsConfig
	Synthesis SynthesisConfig
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type RedisConfig struct {
	URL string
}

type JobsConfig struct {
	TTL           time.Duration // hard TTL on job records
	CacheTTL      time.Duration // TTL on content-keyed result cache entries
	MaxConcurrent int           // cap on concurrently running pipelines
}

type LimitsConfig struct {
	MaxContentBytes int
	MaxEndpoints    int
	MaxComponents   int
	MaxSections     int
}

type SynthesisConfig struct {
	Provider    string // "openai", "anthropic" or "demo"
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderDemo      = "demo"
)

// Load loads configuration from environment variables. In development it
// first loads .env from the working directory.
func Load() (Config, error) {
	if getEnv("FAULTLINE_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := Config{
		Env:  getEnv("FAULTLINE_ENV", "development"),
		Port: getEnv("PORT", "8080"),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "faultline"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Jobs: JobsConfig{
			TTL:           getEnvDuration("JOB_TTL", time.Hour),
			CacheTTL:      getEnvDuration("CACHE_TTL", 24*time.Hour),
			MaxConcurrent: getEnvInt("MAX_CONCURRENT_JOBS", 8),
		},
		Limits: LimitsConfig{
			MaxContentBytes: getEnvInt("MAX_CONTENT_BYTES", 1<<20),
			MaxEndpoints:    getEnvInt("MAX_ENDPOINTS", 50),
			MaxComponents:   getEnvInt("MAX_COMPONENTS", 30),
			MaxSections:     getEnvInt("MAX_SECTIONS", 40),
		},
		Synthesis: SynthesisConfig{
			Provider:    getEnv("SYNTHESIS_PROVIDER", ProviderDemo),
			APIKey:      getEnv("SYNTHESIS_API_KEY", ""),
			BaseURL:     getEnv("SYNTHESIS_BASE_URL", ""),
			Model:       getEnv("SYNTHESIS_MODEL", ""),
			MaxTokens:   getEnvInt("SYNTHESIS_MAX_TOKENS", 4096),
			Temperature: getEnvFloat("SYNTHESIS_TEMPERATURE", 0.2),
			Timeout:     getEnvDuration("SYNTHESIS_TIMEOUT", 90*time.Second),
		},
	}

	switch cfg.Synthesis.Provider {
	case ProviderOpenAI, ProviderAnthropic:
		if cfg.Synthesis.APIKey == "" {
			return Config{}, fmt.Errorf("SYNTHESIS_API_KEY is required for provider %q", cfg.Synthesis.Provider)
		}
	case ProviderDemo:
	default:
		return Config{}, fmt.Errorf("unsupported SYNTHESIS_PROVIDER: %q", cfg.Synthesis.Provider)
	}

	if cfg.Jobs.TTL <= 0 || cfg.Jobs.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("JOB_TTL and CACHE_TTL must be positive")
	}
	if cfg.Limits.MaxContentBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_CONTENT_BYTES must be positive")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Plain integers are treated as seconds, matching older deployments.
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
