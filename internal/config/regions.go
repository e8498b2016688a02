package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var defaultRegionsYAML []byte

// RegionsConfig holds the lookup tables used by the public data adapter and
// the maintenance commands. Easier to manage in YAML than env vars.
type RegionsConfig struct {
	Metro             string              `yaml:"metro"`               // e.g. "서울특별시"
	Districts         []string            `yaml:"districts"`           // bare district names under Metro
	Aliases           map[string]string   `yaml:"aliases"`             // stored region alias -> canonical name
	VendorBodyPaths   []string            `yaml:"vendor_body_paths"`   // candidate row array paths, in order
	VendorLabelFields []string            `yaml:"vendor_label_fields"` // candidate category label fields, in order
	Seed              map[string][]string `yaml:"seed"`                // development seed keywords per region
}

// DefaultRegions returns the embedded lookup tables.
func DefaultRegions() *RegionsConfig {
	cfg, err := parseRegions(defaultRegionsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded regions.yaml: %v", err))
	}
	return cfg
}

// LoadRegions loads the lookup tables from path. An empty path or a missing
// file falls back to the embedded defaults.
func LoadRegions(path string) (*RegionsConfig, error) {
	if path == "" {
		return DefaultRegions(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRegions(), nil
		}
		return nil, err
	}

	cfg, err := parseRegions(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Missing sections inherit the defaults
	defaults := DefaultRegions()
	if cfg.Metro == "" && len(cfg.Districts) == 0 {
		cfg.Metro, cfg.Districts = defaults.Metro, defaults.Districts
	}
	if len(cfg.VendorBodyPaths) == 0 {
		cfg.VendorBodyPaths = defaults.VendorBodyPaths
	}
	if len(cfg.VendorLabelFields) == 0 {
		cfg.VendorLabelFields = defaults.VendorLabelFields
	}
	if cfg.Aliases == nil {
		cfg.Aliases = defaults.Aliases
	}

	return cfg, nil
}

func parseRegions(data []byte) (*RegionsConfig, error) {
	var cfg RegionsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
