package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/expgrid/internal/ctxlog"
	"github.com/specialistvlad/expgrid/internal/materialize"
	"github.com/specialistvlad/expgrid/internal/table"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	materializer *materialize.Materializer
}

// NewApp returns an App writing its log to outW.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		materializer: materialize.New(materialize.Layout{
			CheckerDir: cfg.CheckerDir,
			SpecDir:    cfg.SpecDir,
			OutDir:     cfg.OutDir,
		}),
	}
}

// Run reads the experiment table and materializes every row in order. The
// first failure aborts the run; experiments created before it remain.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "config", a.config.ConfigPath, "out_dir", a.config.OutDir)

	rows, err := table.ReadFile(ctx, a.config.ConfigPath)
	if err != nil {
		return err
	}
	a.logger.Info("Experiment table loaded.", "rows", len(rows))

	results, err := a.materializer.All(ctx, rows)
	if err != nil {
		a.logger.Debug("Run aborted.", "completed", len(results))
		return err
	}

	a.logger.Info("Experiments materialized.", "count", len(results), "out_dir", a.config.OutDir)
	return nil
}

// Materialized returns the directory the run creates for the row at index.
func (a *App) Materialized(index int) string {
	return a.materializer.Dir(index)
}
