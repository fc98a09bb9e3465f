package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// CasdoorConfig holds the identity-provider connection settings.
type CasdoorConfig struct {
	Endpoint     string `env:"CASDOOR_ENDPOINT"`
	ClientID     string `env:"CASDOOR_CLIENT_ID"`
	ClientSecret string `env:"CASDOOR_CLIENT_SECRET"`
	Cert         string `env:"CASDOOR_CERT"`
	Organization string `env:"CASDOOR_ORGANIZATION"`
	Application  string `env:"CASDOOR_APPLICATION"`
}

// Config is the full service configuration, loaded from the environment
// with an optional .env file for local development.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"prompt-service.events"`

	Casdoor CasdoorConfig
}

// LoadConfig reads configuration from the environment. A missing .env file
// is not an error; containers pass everything through real env vars.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog level, defaulting to
// info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
