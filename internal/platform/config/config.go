// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token codec) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/web-enterprise-24/backend/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Token signing and claim constants
	TokenSecret     string        `env:"TOKEN_SECRET,required,notEmpty"`
	TokenIssuer     string        `env:"TOKEN_ISSUER"      envDefault:"api.web-enterprise-24.dev"`
	TokenAudience   string        `env:"TOKEN_AUDIENCE"    envDefault:"web-enterprise-24.dev"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`

	// APIKeyCacheTTL bounds how long a resolved API key is served from Redis.
	APIKeyCacheTTL time.Duration `env:"API_KEY_CACHE_TTL" envDefault:"5m"`

	// Observability
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked 'required' is missing or marked 'notEmpty' is blank.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects settings that would produce unusable tokens.
func (c *Config) validate() error {
	if c.AccessTokenTTL < time.Second {
		return fmt.Errorf("config: ACCESS_TOKEN_TTL must be at least 1s, got %s", c.AccessTokenTTL)
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("config: REFRESH_TOKEN_TTL (%s) must exceed ACCESS_TOKEN_TTL (%s)", c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	return nil
}

// TokenConfig derives the immutable token settings injected into the codec and issuer.
func (c *Config) TokenConfig() sec.TokenConfig {
	return sec.TokenConfig{
		Secret:          []byte(c.TokenSecret),
		Issuer:          c.TokenIssuer,
		Audience:        c.TokenAudience,
		AccessTokenTTL:  c.AccessTokenTTL,
		RefreshTokenTTL: c.RefreshTokenTTL,
	}
}

// AllowedOrigins returns the comma separated EXTRA_ORIGINS as a trimmed slice.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
