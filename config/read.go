package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// ReadConfig loads the config file at path. YAML and JSON are both accepted;
// scan defaults are applied before the config is returned.
func ReadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Scan = cfg.Scan.WithDefaults()
	return cfg, nil
}

func MustReadConfig(path string) Config {
	cfg, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
