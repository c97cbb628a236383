package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CheckoutSteps shows saga steps per minute by step and outcome.
func CheckoutSteps() *timeseries.PanelBuilder {
	return series("Checkout Steps / min", "Reserve, intent, processor and confirm steps per minute by outcome", ThirdWidth).
		WithTarget(PromQuery(perMinute("ham_checkout_steps_total", "step", "outcome"), "{{step}} {{outcome}}", "A")).
		Legend(TableLegend("mean", "max"))
}

// CheckoutErrorRate shows failed steps as a percentage of all steps.
func CheckoutErrorRate() *timeseries.PanelBuilder {
	return series("Checkout Step Errors %", "Failed saga steps as percentage of all steps", ThirdWidth).
		WithTarget(PromQuery(`ham:checkout_step_errors:rate5m / ham:checkout_steps:rate5m * 100`, "error %", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(5, 20)).
		ColorScheme(ColorSchemeThresholds())
}

// CheckoutResumes counts attempts continued after a failure without
// reserving again.
func CheckoutResumes() *stat.PanelBuilder {
	return tally("Resumed Checkouts (24h)", "Attempts continued after a failure without reserving again",
		`sum(increase(ham_checkout_resumes_total[24h]))`, ThirdWidth, TSHeight)
}
