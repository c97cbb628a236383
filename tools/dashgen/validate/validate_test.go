package validate

import (
	"testing"

	"github.com/prometheus/prometheus/promql/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadermx/heroesandmore-client/tools/dashgen/rules"
)

var known = map[string]bool{
	"ham_bids_total":                       true,
	"ham_gateway_request_duration_seconds": true,
	"ham:bids:rate5m":                      true,
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		data         string
		wantErrs     int
		wantWarnings int
	}{
		{
			name: "valid row panels",
			data: `{"panels":[{"type":"row","panels":[
				{"title":"Bids","targets":[{"expr":"sum(rate(ham_bids_total[5m]))"}]},
				{"title":"p95","targets":[{"expr":"histogram_quantile(0.95, sum(rate(ham_gateway_request_duration_seconds_bucket[5m])) by (le))"}]}
			]}]}`,
		},
		{
			name:     "unknown metric",
			data:     `{"panels":[{"type":"stat","title":"x","targets":[{"expr":"ham_missing_total"}]}]}`,
			wantErrs: 1,
		},
		{
			name:     "parse error",
			data:     `{"panels":[{"type":"stat","title":"x","targets":[{"expr":"sum(rate(ham_bids_total[5m])"}]}]}`,
			wantErrs: 1,
		},
		{
			name:         "panel without queries",
			data:         `{"panels":[{"type":"row","panels":[{"title":"empty"}]}]}`,
			wantWarnings: 1,
		},
		{
			name:     "not json",
			data:     `{`,
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Dashboard([]byte(tt.data), known)
			assert.Len(t, res.Errors, tt.wantErrs, "errors: %v", res.Errors)
			assert.Len(t, res.Warnings, tt.wantWarnings, "warnings: %v", res.Warnings)
			assert.Equal(t, tt.wantErrs == 0, res.Ok())
		})
	}
}

func TestRules(t *testing.T) {
	t.Parallel()

	alert := func(r rules.Rule) rules.PrometheusRule {
		return rules.PrometheusRule{
			Metadata: rules.PrometheusRuleMetadata{Name: "test"},
			Spec:     rules.PrometheusRuleSpec{Groups: []rules.RuleGroup{{Name: "g", Rules: []rules.Rule{r}}}},
		}
	}

	tests := []struct {
		name         string
		rule         rules.Rule
		wantErrs     int
		wantWarnings int
	}{
		{
			name: "recording rule",
			rule: rules.Rule{Record: "ham:bids:rate5m", Expr: `sum(rate(ham_bids_total[5m]))`},
		},
		{
			name:         "recording rule naming",
			rule:         rules.Rule{Record: "ham_bids_rate", Expr: `sum(rate(ham_bids_total[5m]))`},
			wantWarnings: 1,
		},
		{
			name: "alert on recording rule",
			rule: rules.Rule{
				Alert:       "Bids",
				Expr:        `ham:bids:rate5m > 1`,
				Labels:      map[string]string{"severity": "warning"},
				Annotations: map[string]string{"summary": "bids"},
			},
		},
		{
			name:         "alert without severity",
			rule:         rules.Rule{Alert: "Bids", Expr: `ham:bids:rate5m > 1`},
			wantErrs:     1,
			wantWarnings: 1,
		},
		{
			name:     "both record and alert",
			rule:     rules.Rule{Record: "a:b:c", Alert: "A", Expr: `ham_bids_total`},
			wantErrs: 1,
		},
		{
			name:     "empty expression",
			rule:     rules.Rule{Record: "ham:bids:rate5m"},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Rules(alert(tt.rule), known)
			assert.Len(t, res.Errors, tt.wantErrs, "errors: %v", res.Errors)
			assert.Len(t, res.Warnings, tt.wantWarnings, "warnings: %v", res.Warnings)
		})
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	node, err := parser.ParseExpr(`ham:a:rate5m / on() sum(rate(ham_b_total{x="1"}[5m])) + time() - up`)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ham:a:rate5m", "ham_b_total", "up"}, Metrics(node))
}
