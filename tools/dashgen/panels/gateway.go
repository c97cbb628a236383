package panels

import "github.com/grafana/grafana-foundation-sdk/go/timeseries"

// GatewayOutcomes shows client calls per second by outcome: ok or the
// failure kind.
func GatewayOutcomes() *timeseries.PanelBuilder {
	return series("Requests by Outcome", "Marketplace API calls per second by outcome (ok or failure kind)", ThirdWidth).
		WithTarget(PromQuery(`sum(rate(ham_gateway_requests_total[5m])) by (outcome)`, "{{outcome}}", "A")).
		Unit("reqps").
		Legend(TableLegend("mean", "max"))
}

// GatewayLatency shows p95 round trip per HTTP method.
func GatewayLatency() *timeseries.PanelBuilder {
	return series("Round Trip (p95)", "95th percentile marketplace API round trip by method", ThirdWidth).
		WithTarget(PromQuery(quantile(0.95, "ham_gateway_request_duration_seconds_bucket", "method"), "{{method}}", "A")).
		Unit("s").
		Legend(TableLegend("mean", "max"))
}

// Renewals shows credential renewals per minute by result. Reused means a
// concurrent caller had already renewed.
func Renewals() *timeseries.PanelBuilder {
	return series("Credential Renewals / min", "Renewal attempts per minute by result (renewed, reused, rejected, error)", ThirdWidth).
		WithTarget(PromQuery(perMinute("ham_gateway_renewals_total", "result"), "{{result}}", "A"))
}
