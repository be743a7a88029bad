package sched

import (
	"errors"
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml.
type Config struct {
	TickMS              int     `yaml:"tick_ms"`               // wall time per tick when paced, 0 = as fast as possible
	QuantumTicks        int64   `yaml:"quantum_ticks"`         // L3 round-robin slice, 100 by default
	AgingIntervalTicks  int64   `yaml:"aging_interval_ticks"`  // how often the kernel runs the sweep, 100 by default
	AgingThresholdTicks int64   `yaml:"aging_threshold_ticks"` // waiting ticks per boost, 1500 by default
	AgingStep           int     `yaml:"aging_step"`            // priority added per boost, 10 by default
	BurstAlpha          float64 `yaml:"burst_alpha"`           // weight of the last burst in the estimate, 0.5 by default
	EventBuffer         int     `yaml:"event_buffer"`          // status channel capacity
	FailFast            bool    `yaml:"fail_fast"`             // abort the run on a rejected admission
	MaxTicks            int64   `yaml:"max_ticks"`             // simulation cut-off, 0 = unbounded
}

// DefaultConfig is used when no config file is given.
func DefaultConfig() Config {
	return Config{
		TickMS:              0,
		QuantumTicks:        100,
		AgingIntervalTicks:  100,
		AgingThresholdTicks: 1500,
		AgingStep:           10,
		BurstAlpha:          0.5,
		EventBuffer:         256,
	}
}

// Load reads YAML and overrides defaults; empty path or a missing file means
// defaults only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize replaces out-of-range values with their defaults.
func (c *Config) Sanitize() {
	def := DefaultConfig()
	if c.TickMS < 0 {
		c.TickMS = 0
	}
	if c.QuantumTicks <= 0 {
		c.QuantumTicks = def.QuantumTicks
	}
	if c.AgingIntervalTicks <= 0 {
		c.AgingIntervalTicks = def.AgingIntervalTicks
	}
	if c.AgingThresholdTicks <= 0 {
		c.AgingThresholdTicks = def.AgingThresholdTicks
	}
	if c.AgingStep <= 0 {
		c.AgingStep = def.AgingStep
	}
	if c.BurstAlpha <= 0 || c.BurstAlpha > 1 {
		c.BurstAlpha = def.BurstAlpha
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	if c.MaxTicks < 0 {
		c.MaxTicks = 0
	}
}
