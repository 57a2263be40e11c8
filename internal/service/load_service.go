package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bizloader/internal/config"
	"bizloader/internal/dbclient"
	"bizloader/internal/domain"
	"bizloader/internal/etl"
	"bizloader/internal/secret"
	"bizloader/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Load Service: business logic for one batch load
// ─────────────────────────────────────────────────────────────

// ConnectFunc opens the sink. Replaced in tests.
type ConnectFunc func(conn *domain.DatabaseConnection, logger *zap.Logger) (dbclient.Connector, error)

// LoadService runs identifier backfill, validation, mapping and the batch
// write, and records each run in the run log.
type LoadService struct {
	runs    *storage.RunStore // nil disables the run log
	secrets secret.SecretStore
	emitter etl.EventEmitter
	logger  *zap.Logger
	connect ConnectFunc
}

// NewLoadService creates a LoadService ready for use.
func NewLoadService(
	runs *storage.RunStore,
	secrets secret.SecretStore,
	emitter etl.EventEmitter,
	logger *zap.Logger,
) *LoadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadService{
		runs:    runs,
		secrets: secrets,
		emitter: emitter,
		logger:  logger,
		connect: dbclient.NewConnector,
	}
}

// WithConnectFunc swaps the sink factory.
func (s *LoadService) WithConnectFunc(fn ConnectFunc) *LoadService {
	s.connect = fn
	return s
}

// LoadResult is the outcome of Load or Check.
type LoadResult struct {
	*etl.Result
	Backfilled int    `json:"backfilled"`
	RunID      string `json:"runId,omitempty"`
}

// ── Backfill ───────────────────────────────────────────────

// Backfill assigns identifiers to rows lacking one and writes the file
// back. Returns the number of identifiers generated.
func (s *LoadService) Backfill(ctx context.Context, cfg config.Config) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	store, err := fileTable(cfg)
	if err != nil {
		return 0, err
	}
	renames, err := etl.ParseRenames(cfg.Renames)
	if err != nil {
		return 0, err
	}
	n, err := etl.BackfillStore(ctx, store, cfg.IDColumn, renames, etl.PlaceholderIDs{})
	if err != nil {
		return n, fmt.Errorf("backfill: %w", err)
	}
	s.logger.Info("backfill complete", zap.String("file", cfg.InputPath), zap.Int("generated", n))
	return n, nil
}

// ── Load ───────────────────────────────────────────────────

// Load runs the full pipeline against the sink. Per-row failures are
// reported through the emitter; only file and sink errors are returned.
// The sink connection is closed on every path.
func (s *LoadService) Load(ctx context.Context, cfg config.Config) (res *LoadResult, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runLog := &etl.RunLog{InputPath: cfg.InputPath, StartedAt: time.Now()}
	res = &LoadResult{Result: &etl.Result{}}
	defer func() { s.recordRun(runLog, res, err, false) }()

	store, err := fileTable(cfg)
	if err != nil {
		return res, err
	}
	runLog.SourceType = store.Source.Spec().Type

	// 1. Identifier backfill (the only stage that writes the input file).
	if !cfg.SkipBackfill {
		renames, err := etl.ParseRenames(cfg.Renames)
		if err != nil {
			return res, err
		}
		n, err := etl.BackfillStore(ctx, store, cfg.IDColumn, renames, etl.PlaceholderIDs{})
		if err != nil {
			return res, fmt.Errorf("backfill: %w", err)
		}
		res.Backfilled = n
		s.logger.Debug("backfill complete", zap.Int("generated", n))
	}

	// 2. Acquire the sink.
	conn, err := s.resolveConnection(cfg)
	if err != nil {
		return res, err
	}
	runLog.Sink = dbclient.MaskURI(conn.URI)

	connector, err := s.connect(conn, s.logger)
	if err != nil {
		return res, fmt.Errorf("open sink: %w", err)
	}
	defer func() {
		if cerr := connector.Close(); cerr != nil {
			s.logger.Warn("close sink", zap.Error(cerr))
		}
	}()
	if err := connector.EnsureSchema(ctx); err != nil {
		return res, fmt.Errorf("prepare sink: %w", err)
	}

	// 3. Read the full row set once.
	table, err := store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}

	// 4. Validate, map, write.
	engine, err := newEngine(cfg, connector, s.emitter)
	if err != nil {
		return res, err
	}
	result, runErr := engine.Run(ctx, table.Rows)
	if result != nil {
		res.Result = result
	}
	if runErr != nil {
		return res, runErr
	}

	s.logger.Info("load complete",
		zap.String("file", cfg.InputPath),
		zap.Int("read", res.RowsRead),
		zap.Int("accepted", res.RowsAccepted),
		zap.Int("written", res.RowsWritten),
		zap.Int("skipped", len(res.Skipped)),
	)
	return res, nil
}

// Check validates and maps every row without touching the input file or
// the sink.
func (s *LoadService) Check(ctx context.Context, cfg config.Config) (res *LoadResult, err error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runLog := &etl.RunLog{InputPath: cfg.InputPath, StartedAt: time.Now()}
	res = &LoadResult{Result: &etl.Result{}}
	defer func() { s.recordRun(runLog, res, err, true) }()

	store, err := fileTable(cfg)
	if err != nil {
		return res, err
	}
	runLog.SourceType = store.Source.Spec().Type

	table, err := store.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("read input: %w", err)
	}
	engine, err := newEngine(cfg, etl.DiscardWriter{}, s.emitter)
	if err != nil {
		return res, err
	}
	result, err := engine.Run(ctx, table.Rows)
	if result != nil {
		res.Result = result
	}
	return res, err
}

// ListRuns returns the most recent runs from the run log.
func (s *LoadService) ListRuns(limit int) ([]etl.RunLog, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run log is disabled")
	}
	return s.runs.ListRuns(limit)
}

// ListRejects returns the skipped rows recorded for a run.
func (s *LoadService) ListRejects(runID string) ([]storage.Reject, error) {
	if s.runs == nil {
		return nil, fmt.Errorf("run log is disabled")
	}
	return s.runs.ListRejects(runID)
}

// ── Helpers ────────────────────────────────────────────────

func (s *LoadService) resolveConnection(cfg config.Config) (*domain.DatabaseConnection, error) {
	if s.secrets == nil {
		return nil, fmt.Errorf("no secret store configured")
	}
	uri, err := s.secrets.Get(cfg.URIKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.URIKey, err)
	}
	if len(uri) == 0 {
		return nil, fmt.Errorf("%s is not set", cfg.URIKey)
	}
	return dbclient.ParseConnection(string(uri), cfg.Database, cfg.Collection)
}

// recordRun stores the run in the run log. Failures are logged, never returned.
func (s *LoadService) recordRun(runLog *etl.RunLog, res *LoadResult, runErr error, dryRun bool) {
	if s.runs == nil || res == nil {
		return
	}
	runLog.FinishedAt = time.Now()
	runLog.Backfilled = res.Backfilled
	runLog.Status = etl.StatusSuccess
	if runErr != nil {
		runLog.Status = etl.StatusError
		runLog.Error = runErr.Error()
	}

	var rejects []storage.Reject
	if res.Result != nil {
		runLog.RowsRead = res.RowsRead
		runLog.RowsAccepted = res.RowsAccepted
		runLog.RowsWritten = res.RowsWritten
		runLog.RowsSkipped = len(res.Skipped)
		for _, re := range res.Skipped {
			rejects = append(rejects, storage.Reject{
				RowIndex:     re.Index,
				BusinessName: re.BusinessName,
				Reason:       re.Err.Error(),
			})
		}
	}

	if err := s.runs.CreateRun(runLog, dryRun, rejects); err != nil {
		s.logger.Warn("record run", zap.Error(err))
		return
	}
	res.RunID = runLog.ID
}

func fileTable(cfg config.Config) (*etl.FileTable, error) {
	src, err := etl.SourceForPath(cfg.SourceType, cfg.InputPath)
	if err != nil {
		return nil, err
	}
	return &etl.FileTable{Source: src, Config: cfg.SourceConfig()}, nil
}

func newEngine(cfg config.Config, dest etl.Destination, emitter etl.EventEmitter) (*etl.Engine, error) {
	renames, err := etl.ParseRenames(cfg.Renames)
	if err != nil {
		return nil, err
	}
	return &etl.Engine{
		Dest:       dest,
		Validator:  etl.NewBusinessValidator(),
		Mapper:     &etl.Mapper{IDs: etl.PlaceholderIDs{}, IDColumn: cfg.IDColumn},
		Transforms: etl.BuildTransformers(renames),
		Emitter:    emitter,
	}, nil
}
