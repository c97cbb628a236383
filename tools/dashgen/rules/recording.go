package rules

// RecordingRules returns the five-minute rates that dashboards and alerts
// divide into ratios.
func RecordingRules() PrometheusRule {
	return newResource("ham-recording-rules", "ham-recording",
		record("ham:sandbox_http_requests:rate5m",
			`sum(rate(ham_sandbox_http_requests_total[5m]))`),
		record("ham:sandbox_http_errors:rate5m",
			`sum(rate(ham_sandbox_http_requests_total{status=~"5.."}[5m]))`),
		record("ham:gateway_requests:rate5m",
			`sum(rate(ham_gateway_requests_total[5m]))`),
		// Only failures a retry could fix; rejections are the caller's.
		record("ham:gateway_failures:rate5m",
			`sum(rate(ham_gateway_requests_total{outcome=~"server failure|network failure"}[5m]))`),
		record("ham:checkout_steps:rate5m",
			`sum(rate(ham_checkout_steps_total[5m]))`),
		record("ham:checkout_step_errors:rate5m",
			`sum(rate(ham_checkout_steps_total{outcome="error"}[5m]))`),
	)
}
