package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Dataset describes one instrument's tick data source
type Dataset struct {
	Name     string  `yaml:"name"`
	Symbol   string  `yaml:"symbol"`
	Path     string  `yaml:"path,omitempty"` // CSV file; empty means fetch over HTTP
	TickSize float64 `yaml:"tick_size"`
}

// Manifest lists the datasets a single run decomposes
type Manifest struct {
	Datasets []Dataset `yaml:"datasets"`
}

// LoadManifest reads a YAML dataset manifest from the specified path
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest file: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("cannot parse YAML: %w", err)
	}

	if len(m.Datasets) == 0 {
		return nil, fmt.Errorf("manifest %s lists no datasets", path)
	}
	for i, ds := range m.Datasets {
		if ds.Symbol == "" {
			return nil, fmt.Errorf("dataset %d: symbol is required", i)
		}
		if ds.TickSize <= 0 {
			return nil, fmt.Errorf("dataset %d (%s): tick_size must be positive", i, ds.Symbol)
		}
	}

	return &m, nil
}
