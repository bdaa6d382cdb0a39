package store

import "time"

// Config contains the store's tunables.
// Use DefaultConfig() to get sensible defaults, then override as needed.
type Config struct {
	CartTimeout     time.Duration // Bound on a single cart mutation (default: 5s)
	RefreshTimeout  time.Duration // Bound on a single catalog load (default: 10s)
	RefreshInterval time.Duration // Periodic catalog reload, 0 disables (default: 0)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CartTimeout:    5 * time.Second,
		RefreshTimeout: 10 * time.Second,
	}
}

// WithCartTimeout returns a copy of the config with modified cart timeout.
func (c Config) WithCartTimeout(d time.Duration) Config {
	c.CartTimeout = d
	return c
}

// WithRefreshTimeout returns a copy of the config with modified refresh timeout.
func (c Config) WithRefreshTimeout(d time.Duration) Config {
	c.RefreshTimeout = d
	return c
}

// WithRefreshInterval returns a copy of the config with modified refresh interval.
func (c Config) WithRefreshInterval(d time.Duration) Config {
	c.RefreshInterval = d
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.CartTimeout <= 0 {
		return &ConfigError{Field: "CartTimeout", Message: "must be positive"}
	}
	if c.RefreshTimeout <= 0 {
		return &ConfigError{Field: "RefreshTimeout", Message: "must be positive"}
	}
	if c.RefreshInterval < 0 {
		return &ConfigError{Field: "RefreshInterval", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
