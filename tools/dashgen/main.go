package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nadermx/heroesandmore-client/tools/dashgen/dashboards"
	"github.com/nadermx/heroesandmore-client/tools/dashgen/rules"
	"github.com/nadermx/heroesandmore-client/tools/dashgen/validate"
)

const generatedHeader = "# Code generated by tools/dashgen. DO NOT EDIT.\n"

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file, relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	var files []artifact

	if cfg.DashboardEnabled {
		f, err := buildDashboard()
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	if cfg.RulesEnabled {
		fs, err := buildRules()
		if err != nil {
			return err
		}
		files = append(files, fs...)
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, f := range files {
		path := filepath.Join(cfg.OutputDir, f.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, f.data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

func buildDashboard() (artifact, error) {
	dash, err := dashboards.BuildOverview().Build()
	if err != nil {
		return artifact{}, fmt.Errorf("building dashboard: %w", err)
	}

	data, err := json.MarshalIndent(dash, "", "  ")
	if err != nil {
		return artifact{}, fmt.Errorf("encoding dashboard: %w", err)
	}

	if res := validate.Dashboard(data, KnownMetrics); !res.Ok() {
		return artifact{}, fmt.Errorf("dashboard: %w", errors.Join(res.Errors...))
	}

	return artifact{
		path: filepath.Join("grafana", "data", "ham-overview.json"),
		data: append(data, '\n'),
	}, nil
}

func buildRules() ([]artifact, error) {
	crs := []struct {
		file string
		cr   rules.PrometheusRule
	}{
		{file: "ham-recording-rules.yaml", cr: rules.RecordingRules()},
		{file: "ham-alerts.yaml", cr: rules.AlertRules()},
	}

	out := make([]artifact, 0, len(crs))
	for _, c := range crs {
		if res := validate.Rules(c.cr, KnownMetrics); !res.Ok() {
			return nil, fmt.Errorf("%s: %w", c.file, errors.Join(res.Errors...))
		}
		data, err := yaml.Marshal(c.cr)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", c.file, err)
		}
		out = append(out, artifact{
			path: filepath.Join("prometheus", c.file),
			data: append([]byte(generatedHeader), data...),
		})
	}
	return out, nil
}
