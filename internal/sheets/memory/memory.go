// Package memory is an in-process row store. Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "budgetplanner/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	tables map[string][][]string // first row is the header
}

var _ ports.RowStore = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string][][]string)}
}

// EnsureHeader writes the header when the table is empty and fails when an
// existing header differs.
func (s *Store) EnsureHeader(_ context.Context, table string, headers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := s.tables[table]
	if len(values) == 0 {
		s.tables[table] = [][]string{append([]string(nil), headers...)}
		return nil
	}
	return ports.HeaderMismatch(table, headers, values[0])
}

// GetAllRows returns copies of the data rows of a table.
func (s *Store) GetAllRows(_ context.Context, table string) ([]ports.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return ports.RowsFromValues(values), nil
}

func (s *Store) AppendRow(_ context.Context, table string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tables[table]
	if !ok || len(existing) == 0 {
		return fmt.Errorf("table %q has no header", table)
	}
	s.tables[table] = append(existing, append([]string(nil), values...))
	return nil
}

func (s *Store) UpdateCell(_ context.Context, table string, row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("table %q not found", table)
	}
	if row < 2 || row > len(values) {
		return fmt.Errorf("row %d out of range for table %q", row, table)
	}
	if col < 1 || col > len(values[0]) {
		return fmt.Errorf("column %d out of range for table %q", col, table)
	}
	r := values[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	values[row-1] = r
	return nil
}

// Len returns the number of data rows in a table.
func (s *Store) Len(table string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.tables[table]); n > 0 {
		return n - 1
	}
	return 0
}
