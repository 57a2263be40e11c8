package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"bizloader/internal/config"
	"bizloader/internal/etl"
	"bizloader/internal/secret"
	"bizloader/internal/service"
	"bizloader/internal/storage"

	// Register file sources.
	_ "bizloader/internal/etl/sources"
)

// App wires the stores and services for one command invocation.
type App struct {
	cfg    config.Config
	logger *zap.Logger
	out    io.Writer

	db      *storage.DB
	runs    *storage.RunStore
	secrets secret.SecretStore
	loads   *service.LoadService
}

// New creates a new App. out receives the per-row console report.
func New(cfg config.Config, logger *zap.Logger, out io.Writer) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{cfg: cfg, logger: logger, out: out}
}

// Startup opens the run log (when configured) and builds the services.
func (a *App) Startup(ctx context.Context) error {
	if a.cfg.RunsDB != "" {
		db, err := storage.New(a.cfg.RunsDB)
		if err != nil {
			return fmt.Errorf("open run log: %w", err)
		}
		a.db = db
		a.runs = storage.NewRunStore(db)
	}

	a.secrets = secret.NewEnvStore(a.cfg.EnvFiles...)
	a.loads = service.NewLoadService(a.runs, a.secrets, service.NewConsoleEmitter(a.out), a.logger)
	return nil
}

// Shutdown releases the run log.
func (a *App) Shutdown(ctx context.Context) {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close run log", zap.Error(err))
		}
		a.db = nil
	}
}

// Load runs backfill, validation and the batch write.
func (a *App) Load(ctx context.Context) (*service.LoadResult, error) {
	return a.loads.Load(ctx, a.cfg)
}

// Check validates the input without writing anything.
func (a *App) Check(ctx context.Context) (*service.LoadResult, error) {
	return a.loads.Check(ctx, a.cfg)
}

// Backfill only assigns missing identifiers in the input file.
func (a *App) Backfill(ctx context.Context) (int, error) {
	return a.loads.Backfill(ctx, a.cfg)
}

// Runs lists recent runs from the run log.
func (a *App) Runs(limit int) ([]etl.RunLog, error) {
	return a.loads.ListRuns(limit)
}

// Rejects lists the skipped rows of one run.
func (a *App) Rejects(runID string) ([]storage.Reject, error) {
	return a.loads.ListRejects(runID)
}
