// Package validate checks generated dashboards and rules before they are
// written: every PromQL expression must parse and every metric it selects
// must be one the client or sandbox actually exports.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/nadermx/heroesandmore-client/tools/dashgen/rules"
)

// Result collects validation problems. Errors fail generation; warnings
// are reported but do not.
type Result struct {
	Errors   []error
	Warnings []error
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Errorf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Errorf(format, args...))
}

// histogramSuffixes are series suffixes derived from a histogram's base name.
var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Dashboard validates the query expressions in a marshaled dashboard.
func Dashboard(data []byte, known map[string]bool) Result {
	var res Result

	var doc struct {
		Panels []panel `json:"panels"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		res.errorf("decoding dashboard: %w", err)
		return res
	}

	for _, p := range doc.Panels {
		inner := p.Panels
		if p.Type != "row" {
			inner = []panel{p}
		}
		for _, ip := range inner {
			if len(ip.Targets) == 0 {
				res.warnf("panel %q has no queries", ip.Title)
			}
			for _, t := range ip.Targets {
				checkExpr(&res, "panel "+quote(ip.Title), t.Expr, known)
			}
		}
	}
	return res
}

type panel struct {
	Type    string   `json:"type"`
	Title   string   `json:"title"`
	Panels  []panel  `json:"panels"`
	Targets []target `json:"targets"`
}

type target struct {
	Expr string `json:"expr"`
}

// Rules validates every rule in a PrometheusRule resource.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result

	if cr.Metadata.Name == "" {
		res.errorf("rule resource has no name")
	}

	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			switch {
			case r.Record != "" && r.Alert != "":
				res.errorf("group %s: rule sets both record %q and alert %q", g.Name, r.Record, r.Alert)
				continue
			case r.Record != "":
				if strings.Count(r.Record, ":") != 2 {
					res.warnf("record %q does not follow level:metric:operation naming", r.Record)
				}
				checkExpr(&res, "record "+quote(r.Record), r.Expr, known)
			case r.Alert != "":
				if r.Labels["severity"] == "" {
					res.errorf("alert %s has no severity label", r.Alert)
				}
				if r.Annotations["summary"] == "" {
					res.warnf("alert %s has no summary", r.Alert)
				}
				checkExpr(&res, "alert "+r.Alert, r.Expr, known)
			default:
				res.errorf("group %s: rule has neither record nor alert", g.Name)
			}
		}
	}
	return res
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if strings.TrimSpace(expr) == "" {
		res.errorf("%s: empty expression", where)
		return
	}

	node, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: %w", where, err)
		return
	}

	for _, name := range Metrics(node) {
		if !isKnown(name, known) {
			res.errorf("%s: unknown metric %s", where, name)
		}
	}
}

// Metrics returns the metric names selected anywhere in node.
func Metrics(node parser.Node) []string {
	var names []string
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			names = append(names, vs.Name)
		}
		return nil
	})
	return names
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, s := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, s); ok && known[base] {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
