package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config drives the simulation scenario.
type Config struct {
	Replicas   int   `toml:"replicas"`
	Operations int   `toml:"operations"`
	Seed       int64 `toml:"seed"`
	Rename     bool  `toml:"rename"`
}

// DefaultConfig returns the scenario used when no file is given.
func DefaultConfig() Config {
	return Config{Replicas: 3, Operations: 32, Seed: 42, Rename: true}
}

// LoadConfig reads a TOML scenario file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Replicas < 2 {
		return fmt.Errorf("config: need at least 2 replicas, got %d", c.Replicas)
	}
	if c.Operations < 1 {
		return fmt.Errorf("config: need at least 1 operation per replica, got %d", c.Operations)
	}
	return nil
}
