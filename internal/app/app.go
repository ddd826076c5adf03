package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/buildplan/internal/config"
	"github.com/specialistvlad/buildplan/internal/ctxlog"
	"github.com/specialistvlad/buildplan/internal/plugins"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	catalog *plugins.Catalog
}

// NewApp is the constructor for the main application. Logs go to logW. The
// catalog starts with the built-in plugins; manifests are added by Load.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		logger:  logger,
		config:  cfg,
		loader:  loader,
		catalog: plugins.Builtin(),
	}
}

// Catalog returns the plugin catalog.
func (a *App) Catalog() *plugins.Catalog {
	return a.catalog
}

// Config returns the configuration the app was created with.
func (a *App) Config() *Config {
	return a.config
}

// Context returns ctx carrying the app's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
