package generation

import (
	"fmt"
	"os"
	"time"
)

// Config holds generation endpoint parameters. An empty endpoint
// selects the local simulator.
type Config struct {
	Endpoint      string `toml:"endpoint"`
	Timeout       string `toml:"timeout"`
	SimulateDelay string `toml:"simulate_delay"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Endpoint      string
	Timeout       string
	SimulateDelay string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// SimulateDelayDuration returns SimulateDelay as a time.Duration.
func (c *Config) SimulateDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.SimulateDelay)
	return d
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.SimulateDelay != "" {
		c.SimulateDelay = overlay.SimulateDelay
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
	if c.SimulateDelay == "" {
		c.SimulateDelay = "1200ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	setString := func(key string, dst *string) {
		if key != "" {
			if v := os.Getenv(key); v != "" {
				*dst = v
			}
		}
	}

	setString(env.Endpoint, &c.Endpoint)
	setString(env.Timeout, &c.Timeout)
	setString(env.SimulateDelay, &c.SimulateDelay)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.SimulateDelay); err != nil {
		return fmt.Errorf("invalid simulate_delay: %w", err)
	}
	return nil
}
