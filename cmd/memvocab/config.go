package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the file-based defaults for the CLI. Flags always win over
// the config file.
type Config struct {
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`

	Seed struct {
		DelayMin time.Duration `yaml:"delay_min"`
		DelayMax time.Duration `yaml:"delay_max"`
	} `yaml:"seed"`
}

func defaultConfig() *Config {
	cfg := &Config{
		DBPath:   "./memvocab_db",
		LogLevel: "info",
	}
	return cfg
}

// loadConfig reads a YAML config file over the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Seed.DelayMin > cfg.Seed.DelayMax {
		return nil, fmt.Errorf("seed.delay_min must not exceed seed.delay_max")
	}
	return cfg, nil
}
