// Package worker mirrors ledger records into the export sheet. It
// consumes record events and reads current state from storage, so a
// replayed or delayed event still exports what is stored now.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"luxe/internal/core"
	"luxe/internal/export"
	"luxe/internal/sheets"
	"luxe/internal/storage"
)

type SyncWorker struct {
	store    storage.Store
	appender sheets.RowAppender
	remover  sheets.RowRemover
}

func NewSyncWorker(store storage.Store, appender sheets.RowAppender, remover sheets.RowRemover) *SyncWorker {
	return &SyncWorker{
		store:    store,
		appender: appender,
		remover:  remover,
	}
}

// HandleRecordEvent processes a single record event from the queue.
func (w *SyncWorker) HandleRecordEvent(ctx context.Context, ev *export.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"op", ev.Op,
		"kind", ev.Kind,
		"id", ev.ID)

	switch ev.Op {
	case "deleted":
		return w.removeRow(ctx, ev.Kind, ev.ID)
	case "created", "updated":
		row, found, err := w.lookupRow(ctx, ev.Kind, ev.ID)
		if err != nil {
			return err
		}
		if !found {
			// The record was deleted after the event was queued. The
			// delete event that follows cleans up any exported row.
			slog.InfoContext(ctx, "Record no longer stored, skipping export",
				"kind", ev.Kind, "id", ev.ID)
			return nil
		}
		if ev.Op == "updated" {
			if err := w.removeRow(ctx, ev.Kind, ev.ID); err != nil {
				return err
			}
		}
		ref, err := w.appender.Append(ctx, row)
		if err != nil {
			return fmt.Errorf("append row: %w", err)
		}
		slog.InfoContext(ctx, "Exported record",
			"kind", ev.Kind,
			"id", ev.ID,
			"sheet_ref", ref)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring record event with unknown op", "op", ev.Op)
		return nil
	}
}

// ResyncAll re-exports every stored record, appending rows for records
// the sheet does not have yet. Used at worker startup to recover from
// missed events.
func (w *SyncWorker) ResyncAll(ctx context.Context) error {
	expenses, err := loadRecords[core.Expense](ctx, w.store, storage.KeyExpenses)
	if err != nil {
		return err
	}
	earnings, err := loadRecords[core.Earning](ctx, w.store, storage.KeyEarnings)
	if err != nil {
		return err
	}

	synced := 0
	for _, e := range expenses {
		if err := w.resyncOne(ctx, expenseRow(e)); err != nil {
			slog.ErrorContext(ctx, "Failed to resync expense", "id", e.ID, "error", err)
			continue
		}
		synced++
	}
	for _, e := range earnings {
		if err := w.resyncOne(ctx, earningRow(e)); err != nil {
			slog.ErrorContext(ctx, "Failed to resync earning", "id", e.ID, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup resync completed",
		"total", len(expenses)+len(earnings),
		"synced", synced)
	return nil
}

func (w *SyncWorker) resyncOne(ctx context.Context, row sheets.Row) error {
	if err := w.removeRow(ctx, row.Kind, row.ID); err != nil {
		return err
	}
	_, err := w.appender.Append(ctx, row)
	return err
}

func (w *SyncWorker) removeRow(ctx context.Context, kind core.Kind, id int64) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No row remover configured, skipping removal",
			"kind", kind, "id", id)
		return nil
	}
	if err := w.remover.Remove(ctx, kind, id); err != nil {
		return fmt.Errorf("remove row: %w", err)
	}
	return nil
}

func (w *SyncWorker) lookupRow(ctx context.Context, kind core.Kind, id int64) (sheets.Row, bool, error) {
	if kind == core.KindEarning {
		earnings, err := loadRecords[core.Earning](ctx, w.store, storage.KeyEarnings)
		if err != nil {
			return sheets.Row{}, false, err
		}
		for _, e := range earnings {
			if e.ID == id {
				return earningRow(e), true, nil
			}
		}
		return sheets.Row{}, false, nil
	}

	expenses, err := loadRecords[core.Expense](ctx, w.store, storage.KeyExpenses)
	if err != nil {
		return sheets.Row{}, false, err
	}
	for _, e := range expenses {
		if e.ID == id {
			return expenseRow(e), true, nil
		}
	}
	return sheets.Row{}, false, nil
}

func loadRecords[T any](ctx context.Context, store storage.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil, nil
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return records, nil
}

func expenseRow(e core.Expense) sheets.Row {
	return sheets.Row{
		ID:     e.ID,
		Kind:   core.KindExpense,
		Date:   e.Date,
		Label:  string(e.Category),
		Notes:  e.Notes,
		Amount: e.Amount,
	}
}

func earningRow(e core.Earning) sheets.Row {
	return sheets.Row{
		ID:     e.ID,
		Kind:   core.KindEarning,
		Date:   e.Date,
		Label:  string(e.Source),
		Notes:  e.Notes,
		Amount: e.Amount,
	}
}
