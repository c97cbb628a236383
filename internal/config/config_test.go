package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty file uses defaults",
			yaml: `
credentials:
  backend: memory
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
				assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
				assert.Equal(t, 60*time.Second, cfg.API.TransferTimeout)
				assert.Equal(t, 15*time.Second, cfg.API.RenewalTimeout)
				assert.Equal(t, "/auth/token/refresh/", cfg.API.RenewalPath)
				assert.Equal(t, DefaultPageSize, cfg.API.PageSize)
				assert.Equal(t, 50, cfg.API.MaxPages)
				assert.Zero(t, cfg.API.RateLimit.PerSecond)
				assert.Equal(t, "memory", cfg.Credentials.Backend)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "heroesandmore-client", cfg.Telemetry.ServiceName)
				assert.Empty(t, cfg.Telemetry.Endpoint)
				assert.Equal(t, "127.0.0.1", cfg.Sandbox.Host)
				assert.Equal(t, 8000, cfg.Sandbox.Port)
				assert.Equal(t, 5*time.Minute, cfg.Sandbox.AccessTokenTTL)
				assert.Equal(t, 48*time.Hour, cfg.Sandbox.CounterOfferTTL)
				assert.Equal(t, time.Minute, cfg.Sandbox.SweepInterval)
			},
		},
		{
			name: "explicit values",
			yaml: `
api:
  base_url: http://localhost:8000/api/v1
  request_timeout: 10s
  transfer_timeout: 2m
  rate_limit:
    per_second: 4
credentials:
  backend: file
  path: /tmp/ham/creds.yaml
logging:
  level: debug
  format: json
sandbox:
  port: 9000
  access_token_ttl: 30s
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, DevelopmentURL, cfg.API.BaseURL)
				assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
				assert.Equal(t, 2*time.Minute, cfg.API.TransferTimeout)
				assert.InDelta(t, 4.0, cfg.API.RateLimit.PerSecond, 0.0001)
				assert.Equal(t, 1, cfg.API.RateLimit.Burst)
				assert.Equal(t, "/tmp/ham/creds.yaml", cfg.Credentials.Path)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, 9000, cfg.Sandbox.Port)
				assert.Equal(t, 30*time.Second, cfg.Sandbox.AccessTokenTTL)
			},
		},
		{
			name: "env var substitution",
			yaml: `
api:
  base_url: ${HAM_TEST_BASE_URL}
credentials:
  backend: memory
telemetry:
  endpoint: ${HAM_TEST_OTLP}
`,
			envVars: map[string]string{
				"HAM_TEST_BASE_URL": "https://staging.heroesandmore.com/api/v1",
				"HAM_TEST_OTLP":     "otel:4317",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://staging.heroesandmore.com/api/v1", cfg.API.BaseURL)
				assert.Equal(t, "otel:4317", cfg.Telemetry.Endpoint)
			},
		},
		{
			name: "relative base url rejected",
			yaml: `
api:
  base_url: /api/v1
credentials:
  backend: memory
`,
			wantErr: "api.base_url must be an absolute URL",
		},
		{
			name: "unsupported scheme rejected",
			yaml: `
api:
  base_url: ftp://example.com/api
credentials:
  backend: memory
`,
			wantErr: "api.base_url scheme must be http or https",
		},
		{
			name: "transfer timeout shorter than request timeout",
			yaml: `
api:
  request_timeout: 30s
  transfer_timeout: 5s
credentials:
  backend: memory
`,
			wantErr: "api.transfer_timeout",
		},
		{
			name: "unknown credentials backend",
			yaml: `
credentials:
  backend: keychain
`,
			wantErr: "credentials.backend must be one of",
		},
		{
			name: "invalid yaml",
			yaml: `
api: [unclosed
`,
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.Credentials.Backend)
}
