package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bizloader/internal/domain"
	"bizloader/internal/etl"
)

// ─────────────────────────────────────────────────────────────
// ConsoleEmitter: the operator-facing per-row report
// ─────────────────────────────────────────────────────────────

// ConsoleEmitter prints one line per row outcome to W.
type ConsoleEmitter struct {
	W io.Writer
}

// NewConsoleEmitter creates a ConsoleEmitter writing to w.
func NewConsoleEmitter(w io.Writer) *ConsoleEmitter {
	return &ConsoleEmitter{W: w}
}

func (c *ConsoleEmitter) Emit(_ context.Context, event string, data any) {
	switch event {
	case etl.EventRowAccepted:
		if b, ok := data.(*domain.Business); ok {
			fmt.Fprintf(c.W, "✅ Inserted: %s into business list to be added\n", b.BusinessName)
		}
	case etl.EventRowSkipped:
		rowErr, ok := data.(*etl.RowError)
		if !ok {
			return
		}
		var missing *etl.MissingFieldsError
		if errors.As(rowErr.Err, &missing) {
			fmt.Fprintf(c.W, "❌ Skipping '%s'. Missing fields: %s\n",
				rowErr.DisplayName(), strings.Join(missing.Columns, ", "))
			return
		}
		fmt.Fprintf(c.W, "❌ Failed to insert %s: %v\n", rowErr.DisplayName(), rowErr.Err)
	case etl.EventBatchWritten:
		fmt.Fprintf(c.W, "Inserted %v business(es) into the sink\n", data)
	}
}
