// Package config loads the canopy viewer configuration from TOML.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the viewer configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	TPS    int
	// Scene is the scene file rendered on start.
	Scene string
	// DebugAddr is the listen address of the debug server. Empty disables it.
	DebugAddr string
	LogLevel  string
	LogFormat string
	// Frames is the number of frames a headless inspect run steps.
	Frames int
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Title:     "canopy",
		Width:     960,
		Height:    480,
		TPS:       60,
		LogLevel:  "info",
		LogFormat: "console",
		Frames:    120,
	}
}

type fileConfig struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	TPS       int    `toml:"tps"`
	Scene     string `toml:"scene"`
	DebugAddr string `toml:"debug_addr"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
	Frames    int    `toml:"frames"`
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values.
func Load(path string) (Config, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return merge(raw, meta)
}

// Parse is Load for in-memory data.
func Parse(data string) (Config, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return merge(raw, meta)
}

func merge(raw fileConfig, meta toml.MetaData) (Config, error) {
	cfg := Default()

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	if meta.IsDefined("title") {
		cfg.Title = strings.TrimSpace(raw.Title)
	}
	if meta.IsDefined("width") {
		cfg.Width = raw.Width
	}
	if meta.IsDefined("height") {
		cfg.Height = raw.Height
	}
	if meta.IsDefined("tps") {
		cfg.TPS = raw.TPS
	}
	if meta.IsDefined("scene") {
		cfg.Scene = strings.TrimSpace(raw.Scene)
	}
	if meta.IsDefined("debug_addr") {
		cfg.DebugAddr = strings.TrimSpace(raw.DebugAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		cfg.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	if meta.IsDefined("frames") {
		cfg.Frames = raw.Frames
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.TPS))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames %d must not be negative", c.Frames))
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format %q must be console or json", c.LogFormat))
	}
	return errors.Join(errs...)
}
