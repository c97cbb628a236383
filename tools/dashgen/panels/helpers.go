// Package panels provides Grafana dashboard panel builders for the
// marketplace client and sandbox metrics.
package panels

import (
	"fmt"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/cog"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// SandboxJob is the scrape job name of the sandbox server.
const SandboxJob = "ham-sandbox"

// Panel sizes on the 24-column grid.
const (
	StatWidth  = 6
	StatHeight = 4
	ThirdWidth = 8
	HalfWidth  = 12
	TSHeight   = 8
)

// DSRef returns a datasource reference pointing at the ${datasource}
// template variable.
func DSRef() dashboard.DataSourceRef {
	return dashboard.DataSourceRef{
		Type: cog.ToPtr("prometheus"),
		Uid:  cog.ToPtr("${datasource}"),
	}
}

// PromQuery builds a Prometheus query target.
func PromQuery(expr, legendFormat, refID string) *prometheus.DataqueryBuilder {
	return prometheus.NewDataqueryBuilder().
		Expr(expr).
		LegendFormat(legendFormat).
		RefId(refID)
}

// OnSandbox returns a selector for metric scoped to the sandbox job.
func OnSandbox(metric string) string {
	return fmt.Sprintf(`%s{job=%q}`, metric, SandboxJob)
}

// quantile returns the q-quantile of a histogram's _bucket series over
// five minutes, grouped by le and any extra labels.
func quantile(q float64, bucket string, by ...string) string {
	return fmt.Sprintf(`histogram_quantile(%g, sum(rate(%s[5m])) by (%s))`,
		q, bucket, strings.Join(append([]string{"le"}, by...), ", "))
}

// perMinute returns a counter's five-minute rate in events per minute,
// summed by the given labels.
func perMinute(counter string, by ...string) string {
	return fmt.Sprintf(`sum(rate(%s[5m])) by (%s) * 60`, counter, strings.Join(by, ", "))
}

// series returns a line timeseries panel with the shared tooltip, palette
// and line style. Callers add targets, units and legends.
func series(title, description string, width uint32) *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(width).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// single returns a stat panel without a sparkline, colored by thresholds.
func single(title, description string, width, height uint32) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(height).
		Span(width).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// tally returns a stat panel counting events with an area sparkline.
func tally(title, description, expr string, width, height uint32) *stat.PanelBuilder {
	return single(title, description, width, height).
		WithTarget(PromQuery(expr, "", "A")).
		ColorScheme(ColorSchemePaletteClassic()).
		GraphMode(common.BigValueGraphModeArea)
}

func steps(base string, above ...dashboard.Threshold) cog.Builder[dashboard.ThresholdsConfig] {
	return dashboard.NewThresholdsConfigBuilder().
		Mode(dashboard.ThresholdsModeAbsolute).
		Steps(append([]dashboard.Threshold{{Color: base}}, above...))
}

func step(value float64, color string) dashboard.Threshold {
	return dashboard.Threshold{Value: cog.ToPtr(value), Color: color}
}

// ThresholdsRedGreen is red below greenAbove and green from it.
func ThresholdsRedGreen(greenAbove float64) cog.Builder[dashboard.ThresholdsConfig] {
	return steps("red", step(greenAbove, "green"))
}

// ThresholdsGreenYellowRed returns three-tier thresholds.
func ThresholdsGreenYellowRed(yellow, red float64) cog.Builder[dashboard.ThresholdsConfig] {
	return steps("green", step(yellow, "yellow"), step(red, "red"))
}

func ThresholdsGreenOnly() cog.Builder[dashboard.ThresholdsConfig] {
	return steps("green")
}

func ColorSchemeThresholds() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdThresholds)
}

func ColorSchemePaletteClassic() cog.Builder[dashboard.FieldColor] {
	return dashboard.NewFieldColorBuilder().Mode(dashboard.FieldColorModeIdPaletteClassic)
}

// TableLegend shows the legend as a table under the graph with the given
// calculation columns.
func TableLegend(calcs ...string) *common.VizLegendOptionsBuilder {
	return common.NewVizLegendOptionsBuilder().
		DisplayMode(common.LegendDisplayModeTable).
		Placement(common.LegendPlacementBottom).
		Calcs(calcs)
}

// MultiTooltip shows every series, largest first.
func MultiTooltip() *common.VizTooltipOptionsBuilder {
	return common.NewVizTooltipOptionsBuilder().
		Mode(common.TooltipDisplayModeMulti).
		Sort(common.SortOrderDescending)
}
