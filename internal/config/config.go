// Package config loads the core's ambient tuning knobs from YAML,
// mirroring the teacher's own config.LoadFile/applyDefaults shape.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for one core instance.
type Config struct {
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Observe  ObserveConfig  `yaml:"observe"`
	Render   RenderConfig   `yaml:"render"`
	CDP      CDPConfig      `yaml:"cdp"`
}

// SnapshotConfig controls the extractor/compiler pipeline.
type SnapshotConfig struct {
	MaxNodes            int `yaml:"max_nodes"`
	AXFanoutConcurrency int `yaml:"ax_fanout_concurrency"`
}

// ObserveConfig controls the Observation Accumulator.
type ObserveConfig struct {
	MaxPerTrigger       int           `yaml:"max_per_trigger"`
	SignificanceFloor   float64       `yaml:"significance_floor"`
	DebounceWindow      time.Duration `yaml:"debounce_window"`
}

// RenderConfig controls the XML renderer's default tier and the
// action selector's thresholds.
type RenderConfig struct {
	DefaultTier    string  `yaml:"default_tier"`
	MinActionScore float64 `yaml:"min_action_score"`
	MaxActions     int     `yaml:"max_actions"`
}

// CDPConfig controls the Session abstraction.
type CDPConfig struct {
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// LoadFile reads and defaults a Config from a YAML file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Snapshot.MaxNodes <= 0 {
		c.Snapshot.MaxNodes = 2000
	}
	if c.Snapshot.AXFanoutConcurrency <= 0 {
		c.Snapshot.AXFanoutConcurrency = 8
	}
	if c.Observe.MaxPerTrigger <= 0 {
		c.Observe.MaxPerTrigger = 10
	}
	if c.Observe.SignificanceFloor <= 0 {
		c.Observe.SignificanceFloor = 0.3
	}
	if c.Observe.DebounceWindow <= 0 {
		c.Observe.DebounceWindow = 150 * time.Millisecond
	}
	if c.Render.DefaultTier == "" {
		c.Render.DefaultTier = "standard"
	}
	if c.Render.MinActionScore <= 0 {
		c.Render.MinActionScore = 0.2
	}
	if c.Render.MaxActions <= 0 {
		c.Render.MaxActions = 12
	}
	if c.CDP.CallTimeout <= 0 {
		c.CDP.CallTimeout = 30 * time.Second
	}
}
