// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/chromakey/pkg/filter"
	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/orchestrator"
	"github.com/user/chromakey/pkg/ports"
)

// Config represents the full configuration for chromakey. Files may set
// any subset of fields; the rest keep their defaults.
type Config struct {
	// Decoding
	MaxPackets int    `yaml:"max_packets" toml:"max_packets"`
	FFmpegPath string `yaml:"ffmpeg" toml:"ffmpeg"`

	// Keying
	PixelFormat string  `yaml:"pix_fmt" toml:"pix_fmt"`
	Color       string  `yaml:"color" toml:"color"`
	Similarity  float64 `yaml:"similarity" toml:"similarity"`
	Blend       float64 `yaml:"blend" toml:"blend"`
	YUV         bool    `yaml:"yuv" toml:"yuv"`
	TimeBase    string  `yaml:"time_base" toml:"time_base"`

	// Logging
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug" toml:"debug"`
	DebugDir string `yaml:"debug_dir" toml:"debug_dir"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		MaxPackets: 1,

		PixelFormat: "yuva422p",
		Color:       "green",
		Similarity:  0.3,
		Blend:       0.3,
		TimeBase:    "1/25",

		LogLevel: "info",

		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML (.yaml, .yml) or TOML (.toml)
// file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field against the ranges the filter stages accept.
func (c Config) Validate() error {
	if c.MaxPackets < 1 {
		return fmt.Errorf("max_packets must be at least 1, got %d", c.MaxPackets)
	}
	for _, name := range strings.Split(c.PixelFormat, "|") {
		if media.PixelFormatByName(name) == media.PixelFormatNone {
			return fmt.Errorf("unknown pixel format %q", name)
		}
	}
	if _, err := filter.ParseColor(c.Color); err != nil {
		return fmt.Errorf("invalid color %q: %w", c.Color, err)
	}
	if c.Similarity < 0.00001 || c.Similarity > 1 {
		return fmt.Errorf("similarity must be in [0.00001, 1], got %g", c.Similarity)
	}
	if c.Blend < 0 || c.Blend > 1 {
		return fmt.Errorf("blend must be in [0, 1], got %g", c.Blend)
	}
	if tb, err := media.ParseRational(c.TimeBase); err != nil || !tb.Valid() {
		return fmt.Errorf("invalid time_base %q", c.TimeBase)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config. It expects a
// validated Config.
func (c Config) ToOrchestratorConfig(input, output string) orchestrator.Config {
	cfg := orchestrator.DefaultConfig()
	cfg.InputPath = input
	cfg.OutputPath = output

	cfg.MaxPackets = c.MaxPackets
	cfg.PixelFormats = c.PixelFormat
	cfg.Color = c.Color
	cfg.Similarity = c.Similarity
	cfg.Blend = c.Blend
	cfg.YUV = c.YUV
	if tb, err := media.ParseRational(c.TimeBase); err == nil && tb.Valid() {
		cfg.TimeBase = tb
	}
	return cfg
}
