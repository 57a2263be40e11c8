package storage

import (
	"fmt"

	"github.com/google/uuid"

	"bizloader/internal/etl"
)

// RunStore implements persistence for load run logs.
type RunStore struct {
	db *DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *DB) *RunStore {
	return &RunStore{db: db}
}

// Reject is one skipped row of a run.
type Reject struct {
	RowIndex     int    `json:"rowIndex"`
	BusinessName string `json:"businessName"`
	Reason       string `json:"reason"`
}

// CreateRun stores a finished run and its rejected rows in one transaction.
func (s *RunStore) CreateRun(log *etl.RunLog, dryRun bool, rejects []Reject) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	tx, err := s.db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO load_runs (id, input_path, source_type, sink, started_at, finished_at, status,
		 backfilled, rows_read, rows_accepted, rows_written, rows_skipped, error, dry_run)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.InputPath, log.SourceType, log.Sink, log.StartedAt, log.FinishedAt, log.Status,
		log.Backfilled, log.RowsRead, log.RowsAccepted, log.RowsWritten, log.RowsSkipped, log.Error, dryRun,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, r := range rejects {
		if _, err := tx.Exec(
			`INSERT INTO load_run_rejects (run_id, row_index, business_name, reason) VALUES (?, ?, ?, ?)`,
			log.ID, r.RowIndex, r.BusinessName, r.Reason,
		); err != nil {
			return fmt.Errorf("insert reject: %w", err)
		}
	}
	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(limit int) ([]etl.RunLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.conn.Query(
		`SELECT id, input_path, source_type, sink, started_at, finished_at, status,
		 backfilled, rows_read, rows_accepted, rows_written, rows_skipped, error
		 FROM load_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []etl.RunLog
	for rows.Next() {
		var l etl.RunLog
		if err := rows.Scan(
			&l.ID, &l.InputPath, &l.SourceType, &l.Sink, &l.StartedAt, &l.FinishedAt, &l.Status,
			&l.Backfilled, &l.RowsRead, &l.RowsAccepted, &l.RowsWritten, &l.RowsSkipped, &l.Error,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// ListRejects returns the skipped rows of one run in input order.
func (s *RunStore) ListRejects(runID string) ([]Reject, error) {
	rows, err := s.db.conn.Query(
		`SELECT row_index, business_name, reason FROM load_run_rejects
		 WHERE run_id = ? ORDER BY row_index ASC`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reject
	for rows.Next() {
		var r Reject
		if err := rows.Scan(&r.RowIndex, &r.BusinessName, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
