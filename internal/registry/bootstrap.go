package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/veldbooks/veld/internal/model"
)

// ChartFile is the on-disk shape of a chart-of-accounts bootstrap file.
// The version field identifies which revision of the canonical list a
// deployment was seeded from.
type ChartFile struct {
	Version  int                 `yaml:"version"`
	Accounts []model.AccountCode `yaml:"accounts"`
}

// LoadChartFile reads and parses a YAML chart-of-accounts file.
func LoadChartFile(path string) (*ChartFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	var chart ChartFile
	if err := yaml.Unmarshal(data, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse chart file: %w", err)
	}
	if chart.Version < 1 {
		return nil, fmt.Errorf("chart file %s missing version", path)
	}
	if len(chart.Accounts) == 0 {
		return nil, fmt.Errorf("chart file %s defines no accounts", path)
	}
	return &chart, nil
}

// NewFromFile builds a registry over the default ranges seeded from a YAML
// chart file instead of the built-in chart.
func NewFromFile(path string) (*Registry, error) {
	chart, err := LoadChartFile(path)
	if err != nil {
		return nil, err
	}
	return New(DefaultRanges(), chart.Accounts)
}
