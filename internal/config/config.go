package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"blobtile/internal/autotile"
)

const (
	DefaultAddr      = ":2222"
	DefaultHostKey   = "host_key"
	DefaultWorldsDir = "assets/worlds"
	DefaultAtlas     = "assets/atlas/blob47.png"
	DefaultMode      = "background"
)

// Config is the blobtile.yaml file.
type Config struct {
	Addr         string `yaml:"addr"`
	HostKeyPath  string `yaml:"host_key"`
	WorldsDir    string `yaml:"worlds_dir"`
	DefaultWorld string `yaml:"default_world"`
	AtlasPath    string `yaml:"atlas"`
	Mode         string `yaml:"mode"`
	Workers      int    `yaml:"workers"`

	Blend Blend `yaml:"blend"`
}

// Blend is the injectable blend configuration.
type Blend struct {
	// NonBlendBit is the flag bit index that disables blending; -1 turns
	// the check off.
	NonBlendBit int                       `yaml:"non_blend_bit"`
	Exceptions  []autotile.BlendException `yaml:"exceptions"`
	// Replace drops the built-in exceptions instead of extending them.
	Replace bool `yaml:"replace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:        DefaultAddr,
		HostKeyPath: DefaultHostKey,
		WorldsDir:   DefaultWorldsDir,
		AtlasPath:   DefaultAtlas,
		Mode:        DefaultMode,
		Blend:       Blend{NonBlendBit: 11},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// PORT in the environment overrides the listen address.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	return cfg, cfg.Validate()
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if _, err := autotile.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("config mode: %w", err)
	}
	if c.Blend.NonBlendBit < -1 || c.Blend.NonBlendBit > 15 {
		return fmt.Errorf("config blend.non_blend_bit %d outside -1..15", c.Blend.NonBlendBit)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config workers %d is negative", c.Workers)
	}
	for i, e := range c.Blend.Exceptions {
		if e.Subject == 0 || e.Neighbor == 0 {
			return fmt.Errorf("config blend.exceptions[%d]: ids must be non-zero", i)
		}
	}
	return nil
}

// SamplerMode returns the parsed default mode.
func (c Config) SamplerMode() autotile.Mode {
	m, _ := autotile.ParseMode(c.Mode)
	return m
}

// BlendRules builds the rules the background sampler uses.
func (c Config) BlendRules() autotile.BlendRules {
	rules := autotile.DefaultBlendRules()
	if c.Blend.Replace {
		rules.Exceptions = nil
	}
	rules.Exceptions = append(rules.Exceptions, c.Blend.Exceptions...)
	if c.Blend.NonBlendBit < 0 {
		rules.NonBlend = 0
	} else {
		rules.NonBlend = autotile.TileFlags(1) << c.Blend.NonBlendBit
	}
	return rules
}
