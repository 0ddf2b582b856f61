// Package memory is an in-process row sink used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"luxe/internal/core"
	sheets "luxe/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []sheets.Row
}

var (
	_ sheets.RowAppender = (*Store)(nil)
	_ sheets.RowRemover  = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row sheets.Row) (string, error) {
	if !core.ValidAmount(row.Amount) {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidAmount, row.Amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Remove drops every stored row matching kind and id.
func (s *Store) Remove(_ context.Context, kind core.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.Kind == kind && row.ID == id {
			continue
		}
		kept = append(kept, row)
	}
	s.rows = kept
	return nil
}

// Rows returns a copy of the stored rows in append order.
func (s *Store) Rows() []sheets.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sheets.Row(nil), s.rows...)
}
