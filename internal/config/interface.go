package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/buildplan/internal/plugins"
)

// Loader is the interface for a format-specific build-input loader.
type Loader interface {
	// Discover expands files and directories into the build files they hold.
	Discover(paths ...string) ([]string, error)

	// LoadModule reads one build file into its ordered statements.
	LoadModule(ctx context.Context, path string) (*Module, error)

	// LoadPlugins reads the plugin definitions found in dir.
	LoadPlugins(ctx context.Context, dir string) ([]*plugins.Definition, error)

	// Sources returns the parsed files, so diagnostics can be printed with
	// source snippets.
	Sources() map[string]*hcl.File
}
