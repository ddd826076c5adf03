package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/buildplan/internal/planio"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BuildPaths   []string // build.hcl files or directories of modules
	PluginsDir   string   // HCL plugin manifests, optional
	ManifestPath string   // framework manifest (pubspec.yaml), optional

	Format               planio.Format
	LogFormat            string
	LogLevel             string
	RequireSignedRelease bool
	WorkerCount          int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.BuildPaths) == 0 {
		return nil, errors.New("at least one build path is required")
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.WorkerCount)
	}

	if cfg.Format == "" {
		cfg.Format = planio.FormatJSON
	}
	f, err := planio.ParseFormat(string(cfg.Format))
	if err != nil {
		return nil, err
	}
	cfg.Format = f

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return &cfg, nil
}
