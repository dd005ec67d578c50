package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// EngineConfig holds blueprint engine configuration.
type EngineConfig struct {
	// BlueprintRoot anchors relative amends references.
	BlueprintRoot string `envconfig:"BLUEPRINT_ROOT" default:"./blueprints"`
	// CatalogDir is seeded into the registry at startup.
	CatalogDir string `envconfig:"CATALOG_DIR" default:"./catalog"`
	// RegistryDir persists stored blueprints; empty means memory-only.
	RegistryDir  string `envconfig:"REGISTRY_DIR" default:""`
	AllowRemote  bool   `envconfig:"ALLOW_REMOTE" default:"false"`
	FetchRetries int    `envconfig:"FETCH_RETRIES" default:"3"`
	MaxDepth     int    `envconfig:"MAX_DEPTH" default:"32"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Engine: EngineConfig{
			BlueprintRoot: "./blueprints",
			CatalogDir:    "./catalog",
			FetchRetries:  3,
			MaxDepth:      32,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
