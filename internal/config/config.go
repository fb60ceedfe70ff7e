// Package config provides configuration loading for orgmatchd.
package config

import (
	"fmt"
	"time"

	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/matching"
)

// Config is the complete daemon configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Store         StoreConfig         `koanf:"store"`
	Matching      matching.Policy     `koanf:"matching"`
	Logging       logging.Config      `koanf:"logging"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"http_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// RateLimit is the per-tenant resolve request rate, in requests
	// per second. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	// RateBurst is the per-tenant burst allowance.
	RateBurst int `koanf:"rate_burst"`
}

// StoreConfig holds document store configuration.
type StoreConfig struct {
	// Path is the Badger data directory. Ignored when InMemory is set.
	Path string `koanf:"path"`
	// InMemory runs the store without persistence, for development.
	InMemory bool `koanf:"in_memory"`
}

// ObservabilityConfig holds OpenTelemetry configuration.
type ObservabilityConfig struct {
	EnableTelemetry bool   `koanf:"enable_telemetry"`
	ServiceName     string `koanf:"service_name"`
	// Endpoint is the OTLP collector endpoint, e.g. "localhost:4317".
	// Empty disables the exporters even when telemetry is enabled.
	Endpoint string `koanf:"endpoint"`
	// Protocol selects the OTLP transport: "grpc" or "http".
	Protocol string `koanf:"protocol"`
}

// Default returns the baseline configuration before file and
// environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9290,
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       50,
			RateBurst:       100,
		},
		Store: StoreConfig{
			Path: "~/.local/share/orgmatchd/store",
		},
		Matching: matching.DefaultPolicy(),
		Logging:  *logging.NewDefaultConfig(),
		Observability: ObservabilityConfig{
			ServiceName: "orgmatchd",
			Protocol:    "grpc",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.http_port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout cannot be negative")
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit cannot be negative")
	}
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.Matching.PatternThreshold < 0 || c.Matching.PatternThreshold > 1 {
		return fmt.Errorf("matching.pattern_threshold must be 0-1, got %v", c.Matching.PatternThreshold)
	}
	if c.Matching.PatternMediumThreshold > c.Matching.PatternThreshold {
		return fmt.Errorf("matching.pattern_medium_threshold cannot exceed matching.pattern_threshold")
	}
	if c.Matching.FuzzyMinScore < 0 || c.Matching.FuzzyMinScore > 100 {
		return fmt.Errorf("matching.fuzzy_min_score must be 0-100, got %d", c.Matching.FuzzyMinScore)
	}
	if c.Matching.FuzzyHighScore < c.Matching.FuzzyMinScore {
		return fmt.Errorf("matching.fuzzy_high_score cannot be below matching.fuzzy_min_score")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch c.Observability.Protocol {
	case "grpc", "http":
	default:
		return fmt.Errorf("observability.protocol must be 'grpc' or 'http', got %q", c.Observability.Protocol)
	}
	return nil
}
