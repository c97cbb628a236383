package main

import "errors"

// KnownMetrics is the set of metric names exported by the marketplace
// client and the sandbox, plus recording rule names referenced in
// dashboards and alerts.
var KnownMetrics = map[string]bool{
	// Gateway metrics.
	"ham_gateway_requests_total":           true,
	"ham_gateway_request_duration_seconds": true,
	"ham_gateway_renewals_total":           true,

	// Negotiation metrics.
	"ham_bids_total":             true,
	"ham_autobid_cancels_total":  true,
	"ham_offer_actions_total":    true,
	"ham_checkout_steps_total":   true,
	"ham_checkout_resumes_total": true,

	// Sandbox metrics.
	"ham_sandbox_http_request_duration_seconds": true,
	"ham_sandbox_http_requests_total":           true,
	"ham_sandbox_healthz_up":                    true,
	"ham_sandbox_readyz_up":                     true,
	"ham_sandbox_offers_expired_total":          true,
	"ham_sandbox_auctions_closed_total":         true,

	// Recording rules.
	"ham:sandbox_http_requests:rate5m": true,
	"ham:sandbox_http_errors:rate5m":   true,
	"ham:gateway_requests:rate5m":      true,
	"ham:gateway_failures:rate5m":      true,
	"ham:checkout_steps:rate5m":        true,
	"ham:checkout_step_errors:rate5m":  true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
