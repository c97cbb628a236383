// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/nadermx/heroesandmore-client/tools/dashgen/panels"
)

// BuildOverview constructs the HAM Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("HAM Overview").
		Uid("ham-overview").
		Tags([]string{"ham", "heroesandmore"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.SessionsEnded()).
		WithPanel(panels.UptimeStat()))

	// Row 2: Sandbox HTTP.
	b.WithRow(dashboard.NewRowBuilder("Sandbox HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()))

	// Row 3: Client gateway.
	b.WithRow(dashboard.NewRowBuilder("Gateway").
		WithPanel(panels.GatewayOutcomes()).
		WithPanel(panels.GatewayLatency()).
		WithPanel(panels.Renewals()))

	// Row 4: Bids and offers.
	b.WithRow(dashboard.NewRowBuilder("Negotiation").
		WithPanel(panels.BidOutcomes()).
		WithPanel(panels.OfferActions()).
		WithPanel(panels.AutoBidCancels()))

	// Row 5: Checkout.
	b.WithRow(dashboard.NewRowBuilder("Checkout").
		WithPanel(panels.CheckoutSteps()).
		WithPanel(panels.CheckoutErrorRate()).
		WithPanel(panels.CheckoutResumes()))

	// Row 6: Sandbox sweeper.
	b.WithRow(dashboard.NewRowBuilder("Sweeper").
		WithPanel(panels.OffersExpired()).
		WithPanel(panels.AuctionsClosed()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
