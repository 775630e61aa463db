package app

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // experiment table
	CheckerDir string // checker source tree
	SpecDir    string // specification root
	OutDir     string // output root

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and resolves every path to absolute form.
func NewConfig(cfg Config) (*Config, error) {
	paths := []struct {
		name string
		ptr  *string
	}{
		{"ConfigPath", &cfg.ConfigPath},
		{"CheckerDir", &cfg.CheckerDir},
		{"SpecDir", &cfg.SpecDir},
		{"OutDir", &cfg.OutDir},
	}
	for _, p := range paths {
		if *p.ptr == "" {
			return nil, errors.New(p.name + " is a required configuration field and cannot be empty")
		}
		abs, err := filepath.Abs(*p.ptr)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s %q: %w", p.name, *p.ptr, err)
		}
		*p.ptr = abs
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return &cfg, nil
}
