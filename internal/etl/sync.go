package etl

import (
	"context"
	"fmt"
	"time"

	"bizloader/internal/domain"
)

// ── Load Engine ────────────────────────────────────────────
// Orchestrates: rows → transform chain → validate → map → destination.
// Rows are processed strictly in order, one at a time.

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusRunning = "running"
)

// Result is the outcome of one engine run.
type Result struct {
	Status       string            `json:"status"`
	RowsRead     int               `json:"rowsRead"`
	RowsAccepted int               `json:"rowsAccepted"`
	RowsWritten  int               `json:"rowsWritten"`
	Skipped      []*RowError       `json:"-"`
	Records      []domain.Business `json:"-"`
	Duration     time.Duration     `json:"duration"`
	Error        string            `json:"error,omitempty"`
}

// RunLog is a historical record of a load run.
type RunLog struct {
	ID           string    `json:"id"`
	InputPath    string    `json:"inputPath"`
	SourceType   string    `json:"sourceType"`
	Sink         string    `json:"sink"` // credentials masked
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Status       string    `json:"status"`
	Backfilled   int       `json:"backfilled"`
	RowsRead     int       `json:"rowsRead"`
	RowsAccepted int       `json:"rowsAccepted"`
	RowsWritten  int       `json:"rowsWritten"`
	RowsSkipped  int       `json:"rowsSkipped"`
	Error        string    `json:"error,omitempty"`
}

// Engine runs the validation-and-mapping pipeline and hands the
// accepted records to Dest as a single batch.
type Engine struct {
	Dest       Destination
	Validator  *Validator
	Mapper     *Mapper
	Transforms []Transformer
	Emitter    EventEmitter
}

// Run processes every row. Per-row failures are recorded and skipped;
// only a destination error is returned.
func (e *Engine) Run(ctx context.Context, rows []Row) (*Result, error) {
	start := time.Now()
	result := &Result{}

	validator := e.Validator
	if validator == nil {
		validator = NewBusinessValidator()
	}
	mapper := e.Mapper
	if mapper == nil {
		mapper = &Mapper{}
	}
	emitter := e.Emitter
	if emitter == nil {
		emitter = nopEmitter{}
	}

	records := make([]domain.Business, 0, len(rows))
	for i, raw := range rows {
		result.RowsRead++
		row := ApplyTransformers(raw.Clone(), e.Transforms)

		b, err := processRow(row, validator, mapper)
		if err != nil {
			rowErr := &RowError{Index: i, BusinessName: row.Text(domain.ColBusinessName), Err: err}
			result.Skipped = append(result.Skipped, rowErr)
			emitter.Emit(ctx, EventRowSkipped, rowErr)
			continue
		}
		records = append(records, *b)
		emitter.Emit(ctx, EventRowAccepted, b)
	}
	result.RowsAccepted = len(records)
	result.Records = records

	if len(records) > 0 && e.Dest != nil {
		written, err := e.Dest.InsertMany(ctx, records)
		result.RowsWritten = written
		if err != nil {
			result.Status = StatusError
			result.Error = fmt.Sprintf("write: %s", err)
			result.Duration = time.Since(start)
			return result, fmt.Errorf("write batch: %w", err)
		}
		emitter.Emit(ctx, EventBatchWritten, written)
	}

	result.Status = StatusSuccess
	result.Duration = time.Since(start)
	return result, nil
}

func processRow(row Row, v *Validator, m *Mapper) (*domain.Business, error) {
	if err := v.Validate(row); err != nil {
		return nil, err
	}
	return m.Map(row)
}
