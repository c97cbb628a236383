package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// BidOutcomes shows bid attempts per minute by outcome. Errors include
// bids the marketplace rejected as too low.
func BidOutcomes() *timeseries.PanelBuilder {
	return series("Bids / min", "Bid attempts per minute by outcome", ThirdWidth).
		WithTarget(PromQuery(perMinute("ham_bids_total", "outcome"), "{{outcome}}", "A"))
}

// OfferActions shows offer transitions per minute. Skipped actions were
// refused before any call.
func OfferActions() *timeseries.PanelBuilder {
	return series("Offer Actions / min", "Offer transitions per minute; skipped means refused before any call", ThirdWidth).
		WithTarget(PromQuery(perMinute("ham_offer_actions_total", "action", "outcome"), "{{action}} {{outcome}}", "A")).
		Legend(TableLegend("mean", "max"))
}

func AutoBidCancels() *stat.PanelBuilder {
	return tally("Auto-bid Cancels (24h)", "Cancellations; skipped means the auto-bid was already inactive",
		`sum(increase(ham_autobid_cancels_total[24h])) by (outcome)`, ThirdWidth, TSHeight)
}
