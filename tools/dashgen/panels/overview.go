package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// probe returns a stat panel for a 0/1 probe gauge, red when failing.
func probe(title, description, metric string) *stat.PanelBuilder {
	return single(title, description, StatWidth, StatHeight).
		WithTarget(PromQuery(metric, "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorMode(common.BigValueColorModeBackground).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat shows the sandbox health check.
func HealthzStat() *stat.PanelBuilder {
	return probe("Healthz", "Sandbox health check status (1 = ok, 0 = failing)", `ham_sandbox_healthz_up`)
}

// ReadyzStat shows sandbox readiness; it is 0 while starting and draining.
func ReadyzStat() *stat.PanelBuilder {
	return probe("Readyz", "Sandbox readiness status (1 = ready, 0 = starting or draining)", `ham_sandbox_readyz_up`)
}

// SessionsEnded counts renewals the marketplace refused in the last hour.
// Each one forced a new sign-in.
func SessionsEnded() *stat.PanelBuilder {
	return single("Sessions Ended (1h)", "Renewals rejected by the marketplace, each forcing a new sign-in",
		StatWidth, StatHeight).
		WithTarget(PromQuery(`sum(increase(ham_gateway_renewals_total{result="rejected"}[1h]))`, "", "A")).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorMode(common.BigValueColorModeBackground)
}

// UptimeStat shows time since the sandbox process started.
func UptimeStat() *stat.PanelBuilder {
	return single("Uptime", "Time since the sandbox process started", StatWidth, StatHeight).
		WithTarget(PromQuery(`time() - `+OnSandbox("process_start_time_seconds"), "", "A")).
		Unit("s")
}
