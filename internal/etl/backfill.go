package etl

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ── Identifier Backfill ────────────────────────────────────
// Ensures every row carries an external identifier, generating one where
// absent. Existing values are never touched, so re-running is a no-op.

// DefaultIDColumn is the column holding the external identifier.
const DefaultIDColumn = "clerkUserID"

// PlaceholderPrefix marks generated identifiers so they stand out from
// real external ones.
const PlaceholderPrefix = "placeholder-"

// IDGenerator produces identifiers that are unique within a run.
type IDGenerator interface {
	NewID() string
}

// PlaceholderIDs generates "<prefix><uuid v4>" identifiers.
type PlaceholderIDs struct {
	Prefix string // defaults to PlaceholderPrefix
}

func (g PlaceholderIDs) NewID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = PlaceholderPrefix
	}
	return prefix + uuid.NewString()
}

// Backfill assigns a generated identifier to every row whose column is
// missing, adding the column to the header if needed. It returns the
// number of cells written.
func Backfill(t *Table, column string, gen IDGenerator) int {
	if gen == nil {
		gen = PlaceholderIDs{}
	}
	t.AddColumn(column)

	written := 0
	for _, row := range t.Rows {
		if v, ok := row[column]; ok && !IsMissing(v) {
			continue
		}
		row[column] = gen.NewID()
		written++
	}
	return written
}

// TableStore loads and saves a table at a fixed location.
type TableStore interface {
	Load(ctx context.Context) (*Table, error)
	Save(ctx context.Context, t *Table) error
}

// IDSourceColumn returns the column of t that holds identifiers for
// column. When renames maps a header of t onto column, that header is the
// source: backfilling it lets the rename carry real and generated values
// alike onto column, instead of a generated column shadowing the real one.
func IDSourceColumn(t *Table, column string, renames map[string]string) string {
	for _, h := range t.Headers {
		if h != column && renames[h] == column {
			return h
		}
	}
	return column
}

// BackfillStore runs Backfill against a stored table and writes it back
// only when something changed. renames are the column aliases the load
// will apply; see IDSourceColumn.
func BackfillStore(ctx context.Context, store TableStore, column string, renames map[string]string, gen IDGenerator) (int, error) {
	t, err := store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load table: %w", err)
	}
	column = IDSourceColumn(t, column, renames)
	hadColumn := t.HasColumn(column)
	n := Backfill(t, column, gen)
	if n == 0 && hadColumn {
		return 0, nil
	}
	if err := store.Save(ctx, t); err != nil {
		return n, fmt.Errorf("save table: %w", err)
	}
	return n, nil
}
