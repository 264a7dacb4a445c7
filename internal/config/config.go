package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string        `env:"APP_NAME" envDefault:"CongoChain"`
	AppEnv            string        `env:"APP_ENV" envDefault:"development"`
	Port              string        `env:"PORT" envDefault:"8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT" envDefault:"json"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	RedisURL          string        `env:"REDIS_URL"`
	ShutdownPeriod    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	IdempotencyTTL    time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
	GenesisFile       string        `env:"GENESIS_FILE"`
	DiagnosticsStream string        `env:"DIAGNOSTICS_STREAM" envDefault:"runtime:diagnostics"`
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.ShutdownPeriod <= 0 {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.IdempotencyTTL <= 0 {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development environment, where
// Postgres and Redis are optional.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
