package goCDEP

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultStorageKey is the durable slot name used for session persistence
// when none is configured.
const DefaultStorageKey = "cdep_auth"

// APIConfig locates the dashboard API.
type APIConfig struct {
	// BaseURL is the API origin, e.g. "https://api.example.com". Required.
	BaseURL string

	// Timeout bounds each HTTP attempt. Zero means no client timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// SessionConfig controls durable session persistence.
type SessionConfig struct {
	// StorageKey names the single slot used by key-value backends.
	StorageKey string
}

// AuditConfig controls the audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int

	// DropIfFull drops events instead of blocking session operations when
	// the buffer is full.
	DropIfFull bool
}

// MetricsConfig controls metric collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// Config assembles a client. Zero values fall back to [DefaultConfig]
// behavior where a sensible default exists; BaseURL has none.
type Config struct {
	API     APIConfig
	Session SessionConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// DefaultConfig returns the baseline configuration. The BaseURL must still
// be set before [Builder.Build] succeeds.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   15 * time.Second,
			UserAgent: "goCDEP/1",
		},
		Session: SessionConfig{
			StorageKey: DefaultStorageKey,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: API.BaseURL is required", ErrClientNotReady)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: API.BaseURL: %v", ErrClientNotReady, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: API.BaseURL must be http or https", ErrClientNotReady)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("%w: API.Timeout must be >= 0", ErrClientNotReady)
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return fmt.Errorf("%w: Audit.BufferSize must be >= 0", ErrClientNotReady)
	}
	return nil
}

// ConfigFromEnv loads configuration from the environment, reading an
// optional .env file first. Recognized variables:
//
//	CDEP_API_BASE_URL      API origin (required)
//	CDEP_API_TIMEOUT       per-attempt timeout, Go duration syntax
//	CDEP_API_USER_AGENT    User-Agent header value
//	CDEP_SESSION_KEY       durable storage slot name
//	CDEP_AUDIT_ENABLED     "true" enables audit dispatch
//	CDEP_AUDIT_BUFFER      audit channel capacity
//	CDEP_METRICS_ENABLED   "false" disables metric collection
//	CDEP_METRICS_LATENCY   "true" enables latency histograms
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.API.BaseURL = os.Getenv("CDEP_API_BASE_URL")

	if v := os.Getenv("CDEP_API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CDEP_API_TIMEOUT: %v", ErrClientNotReady, err)
		}
		cfg.API.Timeout = d
	}
	if v := os.Getenv("CDEP_API_USER_AGENT"); v != "" {
		cfg.API.UserAgent = v
	}
	if v := os.Getenv("CDEP_SESSION_KEY"); v != "" {
		cfg.Session.StorageKey = v
	}
	if v := os.Getenv("CDEP_AUDIT_ENABLED"); v != "" {
		cfg.Audit.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CDEP_AUDIT_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: CDEP_AUDIT_BUFFER: %v", ErrClientNotReady, err)
		}
		cfg.Audit.BufferSize = n
	}
	if v := os.Getenv("CDEP_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("CDEP_METRICS_LATENCY"); v != "" {
		cfg.Metrics.EnableLatencyHistograms = v == "true" || v == "1"
	}

	return cfg, cfg.Validate()
}
