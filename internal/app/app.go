package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/valorkin/mf-loadable-adapter/internal/collector"
	"github.com/valorkin/mf-loadable-adapter/internal/config"
	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/fetch"
	"github.com/valorkin/mf-loadable-adapter/internal/hcl"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
	"github.com/valorkin/mf-loadable-adapter/internal/yamlconfig"
)

// ErrNoRemotes is returned by render-time operations when no remote is
// configured.
var ErrNoRemotes = errors.New("no remotes configured")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *config.Model
	registry *registry.Registry

	fetcher   *fetch.Client
	collector *collector.Collector
}

// DefaultLoaders are the configuration formats read when NewApp is given none.
func DefaultLoaders() []config.Loader {
	return []config.Loader{hcl.NewLoader(), yamlconfig.NewLoader()}
}

// NewApp loads and validates the configuration and wires the components it
// enables. Results are written to outW and logs to logW.
func NewApp(outW, logW io.Writer, appConfig *Config, loaders ...config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(loaders) == 0 {
		loaders = DefaultLoaders()
	}
	parts := make([]*config.Model, 0, len(loaders))
	for _, l := range loaders {
		part, err := l.Load(ctx, appConfig.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		parts = append(parts, part)
	}
	model, err := config.Merge(parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	model.ApplyDefaults()
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Configuration loaded and translated into unified model.", "remotes", len(model.Remotes))

	reg := model.Registry()
	if err := reg.Validate(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Registry validation passed.")

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   model,
		registry: reg,
	}

	if len(model.Remotes) > 0 {
		a.fetcher = fetch.New(fetch.WithTimeout(model.Fetch.Timeout), fetch.WithLogger(logger))
		remotes := make([]collector.RemoteDescriptor, len(model.Remotes))
		for i, r := range model.Remotes {
			remotes[i] = collector.RemoteDescriptor{Name: r.Name, ManifestURL: r.ManifestURL, PublicHost: r.PublicHost}
		}
		a.collector, err = collector.New(remotes, a.fetcher,
			collector.WithConcurrency(model.Fetch.Concurrency),
			collector.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run executes the operation selected by appConfig.Command.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", appConfig.Command)
	defer a.Close()

	switch appConfig.Command {
	case CommandEmit:
		return a.Emit(ctx, appConfig.StatsPath, appConfig.OutputDir)
	case CommandTags:
		return a.PrintTags(ctx, appConfig)
	case CommandTransform:
		changed, err := a.Transform(ctx, appConfig.SourceRoot, appConfig.SourcePattern)
		if err != nil {
			return err
		}
		for _, path := range changed {
			fmt.Fprintln(a.outW, path)
		}
		return nil
	case CommandServe:
		return a.Serve(ctx, appConfig.ListenAddr)
	default:
		return fmt.Errorf("unknown command %q", appConfig.Command)
	}
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.fetcher != nil {
		a.fetcher.Close()
	}
}
