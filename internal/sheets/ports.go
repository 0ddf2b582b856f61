package sheets

import (
	"context"

	"luxe/internal/core"
)

// Row is one exported ledger record, flattened for a spreadsheet.
// Label carries the category for expenses and the source for earnings.
type Row struct {
	ID     int64
	Kind   core.Kind
	Date   core.Day
	Label  string
	Notes  string
	Amount float64
}

// Ports for outbound adapters.
type (
	RowAppender interface {
		Append(ctx context.Context, row Row) (rowRef string, err error)
	}

	// RowRemover deletes previously appended rows by record identity.
	RowRemover interface {
		Remove(ctx context.Context, kind core.Kind, id int64) error
	}
)
