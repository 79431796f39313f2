// Package config loads the root service configuration from TOML files
// and environment variables. A base config.toml may be overlaid by
// config.<env>.toml selected through CASEFILE_ENV; every value falls
// back to a default so the service also runs with no file at all.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mkarlsen/casefile/internal/analysis"
	"github.com/mkarlsen/casefile/internal/generation"
	"github.com/mkarlsen/casefile/pkg/database"
	"github.com/mkarlsen/casefile/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCasefileEnv             = "CASEFILE_ENV"
	EnvCasefileShutdownTimeout = "CASEFILE_SHUTDOWN_TIMEOUT"
	EnvCasefileVersion         = "CASEFILE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CASEFILE_DB_HOST",
	Port:            "CASEFILE_DB_PORT",
	Name:            "CASEFILE_DB_NAME",
	User:            "CASEFILE_DB_USER",
	Password:        "CASEFILE_DB_PASSWORD",
	SSLMode:         "CASEFILE_DB_SSL_MODE",
	MaxOpenConns:    "CASEFILE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CASEFILE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CASEFILE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CASEFILE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CASEFILE_STORAGE_CONTAINER_NAME",
	ConnectionString: "CASEFILE_STORAGE_CONNECTION_STRING",
}

var generatorEnv = &generation.Env{
	Endpoint:      "CASEFILE_GENERATOR_ENDPOINT",
	Timeout:       "CASEFILE_GENERATOR_TIMEOUT",
	SimulateDelay: "CASEFILE_GENERATOR_SIMULATE_DELAY",
}

var analysisEnv = &analysis.Env{
	Endpoint:      "CASEFILE_ANALYSIS_ENDPOINT",
	Timeout:       "CASEFILE_ANALYSIS_TIMEOUT",
	SimulateDelay: "CASEFILE_ANALYSIS_SIMULATE_DELAY",
}

// Config is the root configuration for the casefile service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Generator       generation.Config `toml:"generator"`
	Analysis        analysis.Config   `toml:"analysis"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the CASEFILE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCasefileEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment
// overlay, and finalizes all values. If no config.toml exists, defaults
// and environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Generator.Merge(&overlay.Generator)
	c.Analysis.Merge(&overlay.Analysis)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Generator.Finalize(generatorEnv); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := c.Analysis.Finalize(analysisEnv); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvCasefileShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvCasefileVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvCasefileEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
