// Package config loads the menucatalog YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"menucatalog/internal/assets"
	"menucatalog/internal/auth"
	"menucatalog/internal/catalog"
	"menucatalog/internal/logging"
)

// Config holds all menucatalog configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Cart     CartConfig     `yaml:"cart"`
	Auth     AuthConfig     `yaml:"auth"`
	Assets   AssetsConfig   `yaml:"assets"`
	Currency CurrencyConfig `yaml:"currency"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CatalogConfig says where menu items come from. URL wins over Path.
type CatalogConfig struct {
	Path            string `yaml:"path"`
	URL             string `yaml:"url"`
	Watch           bool   `yaml:"watch"`
	RefreshInterval string `yaml:"refresh_interval"` // "" or "0" disables
	FetchTimeout    string `yaml:"fetch_timeout"`
}

type CartConfig struct {
	DatabasePath string `yaml:"database_path"` // "" = in-memory
	Timeout      string `yaml:"timeout"`
}

type AuthConfig struct {
	Users []auth.User `yaml:"users"`
}

// AssetsConfig configures image probing.
type AssetsConfig struct {
	PlaceholderURL string `yaml:"placeholder_url"`
	Probe          bool   `yaml:"probe"`
	ProbeTimeout   string `yaml:"probe_timeout"`
}

type CurrencyConfig struct {
	Symbol string `yaml:"symbol"`
	Locale string `yaml:"locale"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path:         "menu.json",
			FetchTimeout: "10s",
		},
		Cart: CartConfig{
			Timeout: "5s",
		},
		Assets: AssetsConfig{
			PlaceholderURL: assets.DefaultPlaceholder,
			ProbeTimeout:   "3s",
		},
		Currency: CurrencyConfig{
			Symbol: catalog.DefaultCurrencySymbol,
			Locale: catalog.DefaultLocale,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  logging.DefaultFile,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("MENUCATALOG_CATALOG"); path != "" {
		c.Catalog.Path = path
	}
	if url := os.Getenv("MENUCATALOG_CATALOG_URL"); url != "" {
		c.Catalog.URL = url
	}
	if path := os.Getenv("MENUCATALOG_DB"); path != "" {
		c.Cart.DatabasePath = path
	}
	if level := os.Getenv("MENUCATALOG_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if addr := os.Getenv("MENUCATALOG_METRICS_ADDR"); addr != "" {
		c.Metrics.Addr = addr
	}
}

// FetchTimeout returns the catalog fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.Catalog.FetchTimeout, 10*time.Second)
}

// RefreshInterval returns the periodic reload interval; 0 means disabled.
func (c *Config) RefreshInterval() time.Duration {
	return parseDuration(c.Catalog.RefreshInterval, 0)
}

func (c *Config) CartTimeout() time.Duration {
	return parseDuration(c.Cart.Timeout, 5*time.Second)
}

func (c *Config) ProbeTimeout() time.Duration {
	return parseDuration(c.Assets.ProbeTimeout, 3*time.Second)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" && c.Catalog.URL == "" {
		return &ConfigError{Field: "catalog", Message: "needs a path or a url"}
	}
	if c.Catalog.Watch && c.Catalog.URL != "" {
		return &ConfigError{Field: "catalog.watch", Message: "only applies to a catalog file"}
	}
	for field, v := range map[string]string{
		"catalog.refresh_interval": c.Catalog.RefreshInterval,
		"catalog.fetch_timeout":    c.Catalog.FetchTimeout,
		"cart.timeout":             c.Cart.Timeout,
		"assets.probe_timeout":     c.Assets.ProbeTimeout,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Field: field, Message: fmt.Sprintf("invalid duration %q", v)}
		}
		if d < 0 {
			return &ConfigError{Field: field, Message: "must not be negative"}
		}
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return &ConfigError{Field: "logging.level", Message: err.Error()}
	}
	if c.Currency.Symbol == "" {
		return &ConfigError{Field: "currency.symbol", Message: "must not be empty"}
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
