// Package storage keeps the planner tables in a local SQLite file. Every
// column is TEXT so the rows round-trip exactly like spreadsheet cells.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"

	_ "modernc.org/sqlite"
)

// Store maps row numbers onto SQLite rowids: data row n is rowid n-1, which
// keeps the header-is-row-1 numbering of the other backends.
type Store struct {
	db *sql.DB
}

var _ ports.RowStore = (*Store)(nil)

func NewSQLiteStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) GetAllRows(ctx context.Context, table string) ([]ports.Row, error) {
	t, err := lookup(table)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT rowid, %s FROM %s ORDER BY rowid", strings.Join(t.Headers, ", "), t.Name)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.Name, err)
	}
	defer rows.Close()

	var out []ports.Row
	for rows.Next() {
		var rowid int
		cells := make([]sql.NullString, len(t.Headers))
		dest := make([]any, 0, len(cells)+1)
		dest = append(dest, &rowid)
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		values := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			values[h] = cells[i].String
		}
		out = append(out, ports.Row{Index: rowid + 1, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.Name, err)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, table string, values []string) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if len(values) > len(t.Headers) {
		return fmt.Errorf("%d values for %d columns of %s", len(values), len(t.Headers), t.Name)
	}
	args := make([]any, len(t.Headers))
	for i := range args {
		args[i] = ""
		if i < len(values) {
			args[i] = values[i]
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.Headers)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(t.Headers, ", "), placeholders)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", t.Name, err)
	}
	slog.DebugContext(ctx, "Row appended", log.FieldComponent, log.ComponentStorage, log.FieldTable, t.Name)
	return nil
}

func (s *Store) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	t, err := lookup(table)
	if err != nil {
		return err
	}
	if col < 1 || col > len(t.Headers) {
		return fmt.Errorf("column %d out of range for table %q", col, t.Name)
	}
	if row < 2 {
		return fmt.Errorf("row %d out of range for table %q", row, t.Name)
	}
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE rowid = ?", t.Name, t.Headers[col-1])
	res, err := s.db.ExecContext(ctx, query, value, row-1)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.Name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("row %d out of range for table %q", row, t.Name)
	}
	return nil
}

// EnsureHeader checks the migrated column layout. Tables are created by
// migrations, so a missing table is a schema error here.
func (s *Store) EnsureHeader(ctx context.Context, table string, headers []string) error {
	if _, err := lookup(table); err != nil {
		return err
	}
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		got = append(got, name)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if len(got) == 0 {
		return fmt.Errorf("%w: table %s does not exist", core.ErrSchema, table)
	}
	return ports.HeaderMismatch(table, headers, got)
}

// lookup restricts SQL identifiers to the known tables.
func lookup(table string) (ports.Table, error) {
	t, ok := ports.LookupTable(table)
	if !ok {
		return ports.Table{}, fmt.Errorf("unknown table %q", table)
	}
	return t, nil
}
