package rules

// AlertRules returns alerts for the sandbox and the client transaction
// layer.
func AlertRules() PrometheusRule {
	return newResource("ham-alerts", "ham-alerts",
		alert("HamSandboxDown",
			`absent(up{job="ham-sandbox"})`, "2m", critical,
			"HeroesAndMore sandbox is down",
			"The ham-sandbox job has been absent for more than 2 minutes."),
		alert("HamSandboxNotReady",
			`ham_sandbox_readyz_up == 0`, "2m", critical,
			"HeroesAndMore sandbox readiness check is failing",
			"The readiness probe has been reporting not-ready for more than 2 minutes."),
		alert("HamSandboxHighErrorRate",
			`ham:sandbox_http_errors:rate5m / ham:sandbox_http_requests:rate5m > 0.05`, "5m", warning,
			"High HTTP error rate on the sandbox",
			"More than 5% of sandbox requests are returning 5xx errors over the last 5 minutes."),
		alert("HamGatewayFailures",
			`ham:gateway_failures:rate5m / ham:gateway_requests:rate5m > 0.1`, "5m", warning,
			"Marketplace API calls are failing",
			"More than 10% of client calls ended in a server or network failure over the last 5 minutes."),
		alert("HamRenewalRejected",
			`increase(ham_gateway_renewals_total{result="rejected"}[15m]) > 3`, "0m", warning,
			"Credential renewals are being rejected",
			"The marketplace refused more than 3 renewals in 15 minutes and sessions were ended."),
		alert("HamCheckoutStepErrors",
			`ham:checkout_step_errors:rate5m / ham:checkout_steps:rate5m > 0.2`, "10m", warning,
			"Checkout steps are failing",
			"More than 20% of checkout saga steps failed over the last 10 minutes."),
		// Orders here are reserved and paid at the processor but unconfirmed.
		alert("HamCheckoutConfirmFailing",
			`increase(ham_checkout_steps_total{step="confirm",outcome="error"}[15m]) > 0`, "5m", critical,
			"Payment confirmation is failing",
			"The marketplace has not confirmed payments the processor already accepted."),
	)
}
