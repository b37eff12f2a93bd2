// Package app wires the orchestrator together: it builds the stage registry,
// loads the run description, validates it, and hands the resulting profile to
// the runner.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/avk/specpipe/internal/ctxlog"
	"github.com/avk/specpipe/internal/hclspec"
	"github.com/avk/specpipe/internal/stage"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	errW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *stage.Registry
}

// New constructs an App with its own isolated logger and stage registry. The
// registry comes from the configured manifest directory when one is set, and
// from the built-in catalog otherwise.
func New(outW, errW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	specs := stage.Builtin()
	if cfg.StagesPath != "" {
		loaded, err := hclspec.LoadDir(ctx, cfg.StagesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load stage manifests: %w", err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("no stage manifests found in %s", cfg.StagesPath)
		}
		specs = loaded
	}

	registry, err := stage.NewRegistry(specs)
	if err != nil {
		return nil, fmt.Errorf("invalid stage catalog: %w", err)
	}
	logger.Debug("Stage registry built.", "stages", registry.Len())

	return &App{
		outW:     outW,
		errW:     errW,
		logger:   logger,
		config:   cfg,
		registry: registry,
	}, nil
}

// Registry returns the application's stage registry. This is primarily for testing.
func (a *App) Registry() *stage.Registry {
	return a.registry
}
