package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the chat sync
// client core.
type Config struct {
	ServiceName         string        `env:"SERVICE_NAME" envDefault:"chat-sync"`
	Environment         string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	APIBaseURL          string        `env:"CHAT_API_BASE_URL" envDefault:"http://localhost:8080/api"`
	HTTPTimeout         time.Duration `env:"CHAT_HTTP_TIMEOUT" envDefault:"15s"`
	AuthToken           string        `env:"CHAT_AUTH_TOKEN"`
	UserID              int64         `env:"CHAT_USER_ID"`
	BackfillConcurrency int           `env:"CHAT_BACKFILL_CONCURRENCY" envDefault:"4"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("CHAT_API_BASE_URL is required")
	}
	if strings.TrimSpace(cfg.AuthToken) == "" && cfg.UserID == 0 {
		return nil, fmt.Errorf("either CHAT_AUTH_TOKEN or CHAT_USER_ID must be set")
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	if cfg.BackfillConcurrency <= 0 {
		cfg.BackfillConcurrency = 4
	}

	return cfg, nil
}
