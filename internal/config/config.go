package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultKind     = "basic"
	DefaultPlot     = "2d"
	DefaultLogLevel = "info"
)

// Config is the on-disk description of a single simulation run.
type Config struct {
	Kind     string `yaml:"kind"`
	Samples  int    `yaml:"samples,omitempty"`
	Params   Params `yaml:"params,omitempty"`
	Output   string `yaml:"output,omitempty"`
	Plot     string `yaml:"plot,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Kind:     DefaultKind,
		Params:   Params{},
		Plot:     DefaultPlot,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Read decodes path without filling defaults so the result can be layered
// over other sources with Merge. Fields that are present are validated.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := DefaultConfig().Merge(&cfg).Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples must not be negative, got %d", c.Samples)
	}
	switch c.Plot {
	case "", "2d", "3d", "none":
	default:
		return fmt.Errorf("plot must be 2d, 3d or none, got %q", c.Plot)
	}
	return nil
}

// Merge overlays the non-zero fields of o onto a copy of c; params are merged
// key by key.
func (c *Config) Merge(o *Config) *Config {
	out := *c
	out.Params = c.Params.Clone()
	if o == nil {
		return &out
	}
	if o.Kind != "" {
		out.Kind = o.Kind
	}
	if o.Samples != 0 {
		out.Samples = o.Samples
	}
	for k, v := range o.Params {
		out.Params[k] = v
	}
	if o.Output != "" {
		out.Output = o.Output
	}
	if o.Plot != "" {
		out.Plot = o.Plot
	}
	if o.LogLevel != "" {
		out.LogLevel = o.LogLevel
	}
	return &out
}
