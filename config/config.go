// Package config loads run configuration for the batch driver.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulations       int     `yaml:"simulations"`
	ExplorationWeight float64 `yaml:"exploration_weight"`
	Workers           int     `yaml:"workers"`
	Seed              int64   `yaml:"seed"`
	Settlements       int     `yaml:"settlements"`
	Traders           int     `yaml:"traders"`
	DBPath            string  `yaml:"db_path"`
}

func Default() Config {
	return Config{
		Simulations:       100,
		ExplorationWeight: 1.0,
		Workers:           4,
		Seed:              1,
		Settlements:       12,
		Traders:           20,
	}
}

// Load reads a yaml config file, filling unset fields from defaults. An
// empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Simulations < 0 {
		return fmt.Errorf("simulations must be >= 0, got %d", c.Simulations)
	}
	if c.ExplorationWeight <= 0 {
		return fmt.Errorf("exploration_weight must be > 0, got %g", c.ExplorationWeight)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.Settlements < 2 {
		return fmt.Errorf("settlements must be >= 2, got %d", c.Settlements)
	}
	if c.Traders < 0 {
		return fmt.Errorf("traders must be >= 0, got %d", c.Traders)
	}
	return nil
}
