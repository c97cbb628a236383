// Package rules generates Prometheus recording and alert rules as
// Prometheus Operator PrometheusRule resources.
package rules

const (
	apiVersion = "monitoring.coreos.com/v1"
	kind       = "PrometheusRule"

	// selectorLabel is matched by the cluster Prometheus ruleSelector.
	selectorLabel = "prometheus"
	selectorValue = "system-rules-prometheus"
)

// PrometheusRule is a PrometheusRule custom resource.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named set of rules evaluated together.
type RuleGroup struct {
	Name     string `yaml:"name"`
	Interval string `yaml:"interval,omitempty"`
	Rules    []Rule `yaml:"rules"`
}

// Rule is a recording rule when Record is set and an alert when Alert is.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// newResource wraps rules in a single-group resource named name.
func newResource(name, group string, rules ...Rule) PrometheusRule {
	return PrometheusRule{
		APIVersion: apiVersion,
		Kind:       kind,
		Metadata: PrometheusRuleMetadata{
			Name:   name,
			Labels: map[string]string{selectorLabel: selectorValue},
		},
		Spec: PrometheusRuleSpec{
			Groups: []RuleGroup{{Name: group, Rules: rules}},
		},
	}
}

func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

// Severities understood by the alert routing.
const (
	critical = "critical"
	warning  = "warning"
)

func alert(name, expr, pending, severity, summary, description string) Rule {
	return Rule{
		Alert:       name,
		Expr:        expr,
		For:         pending,
		Labels:      map[string]string{"severity": severity},
		Annotations: map[string]string{"summary": summary, "description": description},
	}
}
