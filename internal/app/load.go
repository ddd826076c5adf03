package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/manifest"
	"github.com/specialistvlad/buildplan/internal/model"
)

// LoadPlugins adds the plugins of the configured manifest directory to the
// catalog. A manifest redefining a known plugin is an error.
func (a *App) LoadPlugins(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if a.config.PluginsDir == "" {
		logger.Debug("No plugins directory configured, using built-in plugins only.")
		return nil
	}

	defs, err := a.loader.LoadPlugins(ctx, a.config.PluginsDir)
	if err != nil {
		return fmt.Errorf("failed to load plugins: %w", err)
	}
	for _, def := range defs {
		if err := a.catalog.Add(def); err != nil {
			return fmt.Errorf("failed to load plugins: %w", err)
		}
	}
	logger.Info("Plugin manifests loaded.", "count", len(defs), "catalog_size", a.catalog.Len())
	return nil
}

// LoadModules discovers and parses every build file. Parse errors of all
// files are joined, so one run reports every broken file.
func (a *App) LoadModules(ctx context.Context) ([]*config.Module, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := a.loader.Discover(a.config.BuildPaths...)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no build files found in %v", a.config.BuildPaths)
	}

	var modules []*config.Module
	var errs []error
	for _, path := range paths {
		m, err := a.loader.LoadModule(ctx, path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		modules = append(modules, m)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	logger.Info("Build files loaded.", "modules", len(modules))
	return modules, nil
}

// LoadEnv reads the framework manifest into the session environment.
func (a *App) LoadEnv(ctx context.Context) (model.Env, error) {
	if a.config.ManifestPath == "" {
		return model.Env{}, nil
	}
	p, err := manifest.Load(a.config.ManifestPath)
	if err != nil {
		return nil, err
	}
	env, err := p.Env()
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", a.config.ManifestPath, err)
	}
	ctxlog.FromContext(ctx).Debug("Framework manifest loaded.", "path", a.config.ManifestPath, "version", p.Version)
	return env, nil
}
