package goCDEP

import (
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "defaults with base url",
			mutate:    func(c *Config) { c.API.BaseURL = "https://api.example.com" },
			wantValid: true,
		},
		{
			name:      "missing base url",
			mutate:    func(*Config) {},
			wantValid: false,
		},
		{
			name:      "unsupported scheme",
			mutate:    func(c *Config) { c.API.BaseURL = "ftp://api.example.com" },
			wantValid: false,
		},
		{
			name: "negative timeout",
			mutate: func(c *Config) {
				c.API.BaseURL = "https://api.example.com"
				c.API.Timeout = -time.Second
			},
			wantValid: false,
		},
		{
			name: "negative audit buffer",
			mutate: func(c *Config) {
				c.API.BaseURL = "https://api.example.com"
				c.Audit.Enabled = true
				c.Audit.BufferSize = -1
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tt.wantValid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("CDEP_API_BASE_URL", "https://api.example.com")
	t.Setenv("CDEP_API_TIMEOUT", "30s")
	t.Setenv("CDEP_SESSION_KEY", "cdep_alt")
	t.Setenv("CDEP_METRICS_LATENCY", "true")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Fatalf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.API.Timeout)
	}
	if cfg.Session.StorageKey != "cdep_alt" {
		t.Fatalf("unexpected storage key %q", cfg.Session.StorageKey)
	}
	if !cfg.Metrics.EnableLatencyHistograms {
		t.Fatal("expected latency histograms enabled")
	}
}

func TestConfigFromEnvRejectsBadDuration(t *testing.T) {
	t.Setenv("CDEP_API_BASE_URL", "https://api.example.com")
	t.Setenv("CDEP_API_TIMEOUT", "not-a-duration")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for malformed timeout")
	}
}
