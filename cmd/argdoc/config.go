package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fatih/color"
)

// cliConfig holds defaults read from ~/.argdoc.toml. Flags override it.
type cliConfig struct {
	Format  string `toml:"format"`
	NoColor bool   `toml:"no_color"`
}

func loadConfig() cliConfig {
	cfg := cliConfig{Format: "json"}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".argdoc.toml")
	if _, err := os.Stat(path); err != nil {
		return cfg
	}
	// A broken config file falls back to defaults rather than blocking
	// every invocation.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cliConfig{Format: "json"}
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	return cfg
}

func applyColorConfig(cfg cliConfig, noColorFlag bool) {
	if cfg.NoColor || noColorFlag {
		color.NoColor = true
	}
}
