// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads service configuration from defaults, an optional YAML
// file, and GATEHOUSE_-prefixed environment variables, in that order of
// precedence (later sources win).
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// EnvPrefix is the prefix for environment variable overrides.
// A double underscore separates nesting levels, so GATEHOUSE_DATABASE__URL
// sets database.url and GATEHOUSE_HTTP__ADDR sets http.addr.
const EnvPrefix = "GATEHOUSE_"

// Config is the full service configuration.
type Config struct {
	// Environment is "development" or "production". Production turns on the
	// Secure flag for session cookies.
	Environment string `koanf:"environment"`

	// LogFormat is "json" or "text".
	LogFormat string `koanf:"log_format"`

	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string `koanf:"log_level"`

	HTTP     HTTPConfig     `koanf:"http"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	SMTP     SMTPConfig     `koanf:"smtp"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// CORSOrigins lists browser origins allowed to send credentialed
	// requests. Wildcards are not allowed because the API uses cookies.
	CORSOrigins []string `koanf:"cors_origins"`
}

// MetricsConfig configures the observability server.
type MetricsConfig struct {
	// Addr is the metrics/health listen address. Empty disables the server.
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures PostgreSQL connectivity.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig configures session token issuing.
type AuthConfig struct {
	// JWTSecret signs session tokens. Rotating it invalidates every
	// outstanding session.
	JWTSecret string `koanf:"jwt_secret"`
}

// SMTPConfig configures the outbound mail relay. An empty host switches mail
// delivery to the log dispatcher, which is only acceptable in development.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	Sender   string `koanf:"sender"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Environment: "development",
		LogFormat:   "json",
		LogLevel:    "info",
		HTTP: HTTPConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9100",
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, oops.Code("CONFIG_ENV_FAILED").Wrap(err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is complete and coherent.
func (c *Config) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return oops.Code("CONFIG_INVALID").
			Errorf("environment must be 'development' or 'production', got %q", c.Environment)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return oops.Code("CONFIG_INVALID").
			Errorf("log_level must be 'debug', 'info', 'warn', or 'error', got %q", c.LogLevel)
	}
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("http.addr is required")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return oops.Code("CONFIG_INVALID").Errorf("auth.jwt_secret is required")
	}
	if c.Environment == "production" && c.SMTP.Host == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("smtp.host is required in production")
	}
	for _, origin := range c.HTTP.CORSOrigins {
		if origin == "*" {
			return oops.Code("CONFIG_INVALID").
				Errorf("wildcard CORS origin is not allowed with credentialed requests")
		}
	}
	return nil
}

// Production reports whether the service runs in production mode.
func (c *Config) Production() bool {
	return c.Environment == "production"
}
