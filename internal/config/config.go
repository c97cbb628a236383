// Package config handles loading and validating the client and sandbox
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default endpoints.
const (
	DefaultBaseURL  = "https://www.heroesandmore.com/api/v1"
	DevelopmentURL  = "http://localhost:8000/api/v1"
	DefaultPageSize = 20
)

// Config is the top-level configuration.
type Config struct {
	API         APIConfig         `yaml:"api"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Sandbox     SandboxConfig     `yaml:"sandbox"`
}

// APIConfig defines how the client reaches the marketplace.
type APIConfig struct {
	BaseURL         string          `yaml:"base_url"`
	RequestTimeout  time.Duration   `yaml:"request_timeout"`
	TransferTimeout time.Duration   `yaml:"transfer_timeout"`
	RenewalTimeout  time.Duration   `yaml:"renewal_timeout"`
	RenewalPath     string          `yaml:"renewal_path"`
	PageSize        int             `yaml:"page_size"`
	MaxPages        int             `yaml:"max_pages"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines the client-side request throttle. A zero
// PerSecond disables throttling.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CredentialsConfig selects where the session pair is kept.
type CredentialsConfig struct {
	Backend string `yaml:"backend"` // file, memory
	Path    string `yaml:"path"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TelemetryConfig defines OTLP export. An empty Endpoint disables export.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// SandboxConfig defines the local sandbox marketplace server.
type SandboxConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	CounterOfferTTL time.Duration `yaml:"counter_offer_ttl"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config bytes, expanding environment variables,
// applying defaults and validating.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a fully defaulted configuration without reading a file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyAPIDefaults(&cfg.API)
	applyCredentialsDefaults(&cfg.Credentials)
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applySandboxDefaults(&cfg.Sandbox)
}

func applyAPIDefaults(a *APIConfig) {
	if a.BaseURL == "" {
		a.BaseURL = DefaultBaseURL
	}
	if a.RequestTimeout == 0 {
		a.RequestTimeout = 30 * time.Second
	}
	if a.TransferTimeout == 0 {
		a.TransferTimeout = 60 * time.Second
	}
	if a.RenewalTimeout == 0 {
		a.RenewalTimeout = 15 * time.Second
	}
	if a.RenewalPath == "" {
		a.RenewalPath = "/auth/token/refresh/"
	}
	if a.PageSize == 0 {
		a.PageSize = DefaultPageSize
	}
	if a.MaxPages == 0 {
		a.MaxPages = 50
	}
	if a.RateLimit.PerSecond > 0 && a.RateLimit.Burst == 0 {
		a.RateLimit.Burst = 1
	}
}

func applyCredentialsDefaults(c *CredentialsConfig) {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.Backend == "file" && c.Path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			c.Path = dir + "/heroesandmore/credentials.yaml"
		}
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "heroesandmore-client"
	}
}

func applySandboxDefaults(s *SandboxConfig) {
	if s.Host == "" {
		s.Host = "127.0.0.1"
	}
	if s.Port == 0 {
		s.Port = 8000
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.AccessTokenTTL == 0 {
		s.AccessTokenTTL = 5 * time.Minute
	}
	if s.CounterOfferTTL == 0 {
		s.CounterOfferTTL = 48 * time.Hour
	}
	if s.SweepInterval == 0 {
		s.SweepInterval = time.Minute
	}
}

func validate(cfg *Config) error {
	var errs []error

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an absolute URL (got %q)", cfg.API.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api.base_url scheme must be http or https (got %q)", u.Scheme))
	}

	if cfg.API.TransferTimeout < cfg.API.RequestTimeout {
		errs = append(errs, fmt.Errorf(
			"api.transfer_timeout (%s) must not be shorter than api.request_timeout (%s)",
			cfg.API.TransferTimeout, cfg.API.RequestTimeout,
		))
	}
	if cfg.API.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.per_second must not be negative"))
	}

	switch cfg.Credentials.Backend {
	case "memory":
	case "file":
		if cfg.Credentials.Path == "" {
			errs = append(errs, fmt.Errorf("credentials.path is required when backend is file"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"credentials.backend must be one of: file, memory (got %q)",
			cfg.Credentials.Backend,
		))
	}

	if cfg.Sandbox.Port < 0 || cfg.Sandbox.Port > 65535 {
		errs = append(errs, fmt.Errorf("sandbox.port must be between 0 and 65535 (got %d)", cfg.Sandbox.Port))
	}

	return errors.Join(errs...)
}
