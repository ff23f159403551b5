package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/valorkin/mf-loadable-adapter/internal/emitter"
)

// Emit replays a finished build from its stats file and writes the
// federation manifest into outputDir.
func (a *App) Emit(ctx context.Context, statsPath, outputDir string) error {
	e, err := emitter.New(a.registry,
		emitter.WithFileName(a.config.Manifest.FileName),
		emitter.WithLogger(a.logger),
	)
	if err != nil {
		if errors.Is(err, emitter.ErrNoFederationPlugin) {
			return fmt.Errorf("emit requires a container block of kind %q: %w", "module", err)
		}
		return err
	}

	build := &emitter.StatsBuild{StatsPath: statsPath, OutputDir: outputDir, Logger: a.logger}
	if err := build.Run(ctx, e); err != nil {
		return fmt.Errorf("emit failed: %w", err)
	}
	a.logger.Info("Manifest written.", "dir", outputDir, "file", e.FileName(), "exposes", len(e.Manifest().Exposes))
	return nil
}
