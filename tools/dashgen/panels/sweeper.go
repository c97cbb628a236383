package panels

import "github.com/grafana/grafana-foundation-sdk/go/stat"

// OffersExpired counts countered offers the sweeper declined in the past day.
func OffersExpired() *stat.PanelBuilder {
	return tally("Counters Expired (24h)", "Countered offers declined by the sweeper after expiry",
		`increase(`+OnSandbox("ham_sandbox_offers_expired_total")+`[24h])`, HalfWidth, StatHeight)
}

// AuctionsClosed counts auctions the sweeper closed in the past day.
func AuctionsClosed() *stat.PanelBuilder {
	return tally("Auctions Closed (24h)", "Auctions closed by the sweeper after their end date",
		`increase(`+OnSandbox("ham_sandbox_auctions_closed_total")+`[24h])`, HalfWidth, StatHeight)
}
