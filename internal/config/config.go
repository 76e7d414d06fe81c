// README: Config loader; reads TRAVELAI_* env vars (and an optional .env file) with defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type HTTPConfig struct {
	Addr            string        `env:"TRAVELAI_HTTP_ADDR" envDefault:":8080"`
	CORSOrigins     []string      `env:"TRAVELAI_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	GenerateTimeout time.Duration `env:"TRAVELAI_GENERATE_TIMEOUT" envDefault:"60s"`
}

type DBConfig struct {
	// DSN empty disables trip persistence.
	DSN            string        `env:"TRAVELAI_DB_DSN"`
	Migrate        bool          `env:"TRAVELAI_DB_MIGRATE" envDefault:"true"`
	PersistTimeout time.Duration `env:"TRAVELAI_PERSIST_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	// Addr empty selects the in-process rate limiter.
	Addr          string `env:"TRAVELAI_REDIS_ADDR"`
	RatePerMinute int    `env:"TRAVELAI_RATE_PER_MINUTE" envDefault:"20"`
}

type AIConfig struct {
	Provider  string `env:"TRAVELAI_AI_PROVIDER" envDefault:"gemini"`
	GeminiKey string `env:"GEMINI_API_KEY"`
	OpenAIKey string `env:"OPENAI_API_KEY"`
}

type FirebaseConfig struct {
	ProjectID       string `env:"TRAVELAI_FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"TRAVELAI_FIREBASE_CREDENTIALS_FILE"`
}

type Config struct {
	Env      string `env:"TRAVELAI_ENV" envDefault:"development"`
	LogLevel string `env:"TRAVELAI_LOG_LEVEL" envDefault:"info"`

	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	AI       AIConfig
	Firebase FirebaseConfig
}

// Load reads .env from the working directory when present, then parses the
// environment. Variables already set in the environment win over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.Redis.RatePerMinute < 0 {
		return Config{}, fmt.Errorf("config: TRAVELAI_RATE_PER_MINUTE must be >= 0, got %d", cfg.Redis.RatePerMinute)
	}
	if cfg.HTTP.GenerateTimeout <= 0 {
		return Config{}, fmt.Errorf("config: TRAVELAI_GENERATE_TIMEOUT must be positive")
	}
	return cfg, nil
}

// Production reports whether the service runs with production logging.
func (c Config) Production() bool {
	return c.Env == "production"
}
