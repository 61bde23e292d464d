// Package config loads server configuration from the environment, with
// command-line flags overriding for local development.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all server settings.
type Config struct {
	Addr         string        `env:"RUN_ADDRESS" env-default:":8080"`
	DatabasePath string        `env:"DATABASE_PATH" env-default:"ledger.db"`
	TokenSecret  string        `env:"TOKEN_SECRET" env-default:"dev-secret-change-me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" env-default:"24h"`
}

// Load reads the environment and applies flag overrides.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DatabasePath, "SQLite database path (use \":memory:\" for in-memory)")
	flag.Parse()

	cfg.Addr = *addr
	cfg.DatabasePath = *dbPath
	return &cfg, nil
}
