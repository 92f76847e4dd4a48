package sheets

import (
	"context"
)

// Row is one data row of a table, keyed by header column name.
type Row struct {
	// Index is the 1-based row number in the table, counting the header as
	// row 1; the first data row is 2.
	Index  int
	Values map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r Row) Get(column string) string {
	return trim(r.Values[column])
}

// Ports for outbound adapters.
type (
	RowReader interface {
		// GetAllRows returns every data row of the table in store order.
		GetAllRows(ctx context.Context, table string) ([]Row, error)
	}

	RowWriter interface {
		AppendRow(ctx context.Context, table string, values []string) error
		// UpdateCell overwrites one cell; row and col are 1-based.
		UpdateCell(ctx context.Context, table string, row, col int, value string) error
	}

	SchemaChecker interface {
		// EnsureHeader writes the header when the table is empty and fails
		// with core.ErrSchema when an existing header differs.
		EnsureHeader(ctx context.Context, table string, headers []string) error
	}

	// RowStore is the tabular persistent store behind every record stream.
	RowStore interface {
		RowReader
		RowWriter
		SchemaChecker
	}
)
