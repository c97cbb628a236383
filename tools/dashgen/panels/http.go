package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RequestRate shows sandbox requests per second.
func RequestRate() *timeseries.PanelBuilder {
	return series("Request Rate", "Sandbox HTTP requests per second", ThirdWidth).
		WithTarget(PromQuery(`ham:sandbox_http_requests:rate5m`, "req/s", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max"))
}

// LatencyPercentiles shows p50, p95 and p99 sandbox request latency.
func LatencyPercentiles() *timeseries.PanelBuilder {
	b := series("Latency Percentiles", "Sandbox HTTP request duration percentiles", ThirdWidth)

	bucket := OnSandbox("ham_sandbox_http_request_duration_seconds_bucket")
	for i, q := range []float64{0.50, 0.95, 0.99} {
		b = b.WithTarget(PromQuery(quantile(q, bucket), fmt.Sprintf("p%.0f", q*100), string(rune('A'+i))))
	}

	return b.
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// ErrorRate shows sandbox 5xx responses as a percentage of all requests.
// Rejected bids and offers are 4xx and do not count.
func ErrorRate() *timeseries.PanelBuilder {
	return series("Error Rate %", "Sandbox HTTP 5xx responses as percentage of total requests", ThirdWidth).
		WithTarget(PromQuery(
			`ham:sandbox_http_errors:rate5m / ham:sandbox_http_requests:rate5m * 100`,
			"error %", "A",
		)).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds())
}
