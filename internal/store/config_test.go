package store

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.CartTimeout != 5*time.Second {
		t.Errorf("Expected CartTimeout 5s, got %v", cfg.CartTimeout)
	}
	if cfg.RefreshTimeout != 10*time.Second {
		t.Errorf("Expected RefreshTimeout 10s, got %v", cfg.RefreshTimeout)
	}
	if cfg.RefreshInterval != 0 {
		t.Errorf("Expected RefreshInterval disabled, got %v", cfg.RefreshInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid default config", DefaultConfig(), false},
		{"zero cart timeout", DefaultConfig().WithCartTimeout(0), true},
		{"zero refresh timeout", DefaultConfig().WithRefreshTimeout(0), true},
		{"negative interval", DefaultConfig().WithRefreshInterval(-time.Second), true},
		{"periodic refresh", DefaultConfig().WithRefreshInterval(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_WithMethodsDoNotMutate(t *testing.T) {
	cfg := DefaultConfig()
	newCfg := cfg.WithCartTimeout(time.Second)
	if newCfg.CartTimeout != time.Second {
		t.Errorf("WithCartTimeout failed, got %v", newCfg.CartTimeout)
	}
	if cfg.CartTimeout != 5*time.Second {
		t.Error("WithCartTimeout mutated original config")
	}
}

func TestConfigError(t *testing.T) {
	err := &ConfigError{Field: "CartTimeout", Message: "must be positive"}
	if err.Error() != "config error: CartTimeout must be positive" {
		t.Errorf("unexpected error text %q", err.Error())
	}
}
