// Package config loads the adapter-layer settings: listen address,
// dashboard static root, and the per-book trade-log cap. Nothing here
// governs matching semantics, only how much state surrounds it.
package config

import (
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the adapter-layer configuration, loaded from YAML with a
// built-in fallback when the file is absent.
type Config struct {
	Address      string `yaml:"address"`
	Port         int    `yaml:"port"`
	StaticRoot   string `yaml:"static_root"`
	DashboardDir string `yaml:"dashboard_dir"`
	TradeLogCap  int    `yaml:"trade_log_cap"`
}

// Default returns the built-in configuration used when no file is found.
func Default() Config {
	return Config{
		Address:      "0.0.0.0",
		Port:         8080,
		StaticRoot:   "./static",
		DashboardDir: "./static/dashboard.html",
		TradeLogCap:  10_000,
	}
}

// Load reads path and overlays it onto Default(). A missing file is not an
// error; it just yields the default configuration.
func Load(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Info().Str("path", path).Msg("no config file found, using defaults")
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to parse config, using defaults")
		return Default()
	}

	return cfg
}
