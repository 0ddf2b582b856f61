package memory

import (
	"context"
	"testing"
	"time"

	"luxe/internal/core"
	sheets "luxe/internal/sheets"
)

func row(id int64, kind core.Kind, amount float64) sheets.Row {
	return sheets.Row{
		ID:     id,
		Kind:   kind,
		Date:   core.NewDay(2024, time.June, 12),
		Label:  "Food",
		Amount: amount,
	}
}

func TestAppendAndRows(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, row(1, core.KindExpense, 10))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("unexpected row ref %q", ref)
	}

	if _, err := s.Append(ctx, row(2, core.KindExpense, -5)); err == nil {
		t.Error("expected invalid amount to be rejected")
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestRemoveMatchesKindAndID(t *testing.T) {
	s := New()
	ctx := context.Background()
	s.Append(ctx, row(1, core.KindExpense, 10))
	s.Append(ctx, row(1, core.KindEarning, 20))
	s.Append(ctx, row(2, core.KindExpense, 30))

	if err := s.Remove(ctx, core.KindExpense, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after removal, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Kind == core.KindExpense && r.ID == 1 {
			t.Errorf("expected expense 1 removed, still present: %+v", r)
		}
	}
}
