// Package config builds the single configuration object the server runs with.
// It is loaded once in main and passed down; nothing else reads the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendOpenAI = "openai"
	BackendGemini = "gemini"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	GinMode     string `envconfig:"GIN_MODE" default:"release"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	EnableDB    bool   `envconfig:"ENABLE_DB" default:"false"`

	DBMaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	DBMinConns        int32         `envconfig:"DB_MIN_CONNS" default:"0"`
	DBMaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// MaxBodyBytes caps request bodies; uploads carry images so it is larger
	// than a plain JSON API would need.
	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"10485760"`

	Backend               string        `envconfig:"RECOMMENDER_BACKEND" default:"openai"`
	OpenAIModel           string        `envconfig:"OPENAI_MODEL" default:"gpt-4"`
	OpenAIBaseURL         string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	GeminiModel           string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	RecommendationTimeout time.Duration `envconfig:"RECOMMENDATION_TIMEOUT" default:"30s"`
	RecommendationRate    float64       `envconfig:"RECOMMENDATION_RATE" default:"5"`
	RecommendationBurst   int           `envconfig:"RECOMMENDATION_BURST" default:"10"`

	SecretsFile string `envconfig:"SECRETS_FILE" default:".streamlit/secrets.toml"`
	EnvFile     string `envconfig:"ENV_FILE" default:".env"`

	Credentials Credentials `ignored:"true"`
	// Warnings collects non-fatal problems found while loading, for main to log.
	Warnings []string `ignored:"true"`
}

// Load resolves credentials, then reads the remaining settings from the
// environment (with the local .env file filling gaps) and validates them.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	secretsFile := getEnv("SECRETS_FILE", ".streamlit/secrets.toml")

	// Credentials are captured before the .env file touches the process
	// environment so in-process values keep precedence over the secrets store.
	creds, warnings := ResolveCredentials(os.LookupEnv, secretsFile, envFile)

	_ = godotenv.Load(envFile)

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	cfg.Credentials = creds
	cfg.Warnings = warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend != BackendOpenAI && c.Backend != BackendGemini {
		return fmt.Errorf("RECOMMENDER_BACKEND must be %q or %q, got %q", BackendOpenAI, BackendGemini, c.Backend)
	}
	if c.RecommendationTimeout <= 0 {
		return fmt.Errorf("RECOMMENDATION_TIMEOUT must be positive")
	}
	if c.DBMaxConns > 0 && c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

// ActiveBackend picks the preferred backend when it has a key, otherwise any
// backend that does. An empty result selects the static recommendation table.
func (c *Config) ActiveBackend() (string, string) {
	order := []string{BackendOpenAI, BackendGemini}
	if c.Backend == BackendGemini {
		order = []string{BackendGemini, BackendOpenAI}
	}
	for _, b := range order {
		if key := c.Credentials.Key(b); key.Value != "" {
			return b, key.Value
		}
	}
	return "", ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
