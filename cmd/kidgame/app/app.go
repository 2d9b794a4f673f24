// Package app provides the application context and dependency management
// for the kidgame CLI. It centralizes configuration, logging, and the
// construction of library instances for the individual commands.
package app

import (
	"context"

	"github.com/rs/zerolog"

	kidgame "github.com/geoffoxholm/retropie-scripts"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// App represents the kidgame application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Context returns ctx with the application logger attached, so library
// code logs through the configured output.
func (a *App) Context(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

// libraryOptions builds library options from the app configuration. Each
// command opens its own library so the lock is held only while needed.
func (a *App) libraryOptions() []kidgame.Option {
	opts := []kidgame.Option{
		kidgame.WithDryRun(a.config.DryRun),
		kidgame.WithSystems(a.config.Systems),
	}
	if a.config.RomsDir != "" {
		opts = append(opts, kidgame.WithRomsDir(a.config.RomsDir))
	}
	if a.config.OverlayPath != "" {
		opts = append(opts, kidgame.WithOverlayPath(a.config.OverlayPath))
	}
	if a.config.BackupsDir != "" {
		opts = append(opts, kidgame.WithBackupsDir(a.config.BackupsDir))
	}
	return opts
}

// openLibrary opens the library with the configured options.
func (a *App) openLibrary(ctx context.Context) (*kidgame.Library, error) {
	return kidgame.Open(a.Context(ctx), a.libraryOptions()...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
