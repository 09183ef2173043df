package app

import (
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/vk/geonodego/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	fsys     afero.Fs
	registry *registry.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a registry
// populated from the given modules (the compiled-in core set by default).
func NewApp(outW io.Writer, appConfig *Config, fsys afero.Fs, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All node-kind modules registered.", "count", len(modules))

	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return &App{
		outW:     outW,
		logger:   logger,
		fsys:     fsys,
		registry: reg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
