package etl

import (
	"context"

	"bizloader/internal/domain"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes the validated batch into the sink in one call.
// Whether one bad document aborts the rest is the sink's insert-many
// contract, not the pipeline's.
//
// Pattern: Singer target protocol.

// Destination writes records to a target system.
type Destination interface {
	InsertMany(ctx context.Context, records []domain.Business) (int, error)
}

// DiscardWriter accepts every batch without writing it. Used by dry runs.
type DiscardWriter struct{}

func (DiscardWriter) InsertMany(_ context.Context, records []domain.Business) (int, error) {
	return 0, nil
}
