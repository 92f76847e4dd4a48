package sheets

import (
	"fmt"
	"strings"

	"budgetplanner/internal/core"
)

// Table describes a fixed, order-significant table layout.
type Table struct {
	Name    string
	Headers []string
}

var (
	Users = Table{
		Name:    "users",
		Headers: []string{"user_id", "email", "password_hash", "created_at"},
	}
	Transactions = Table{
		Name:    "transactions",
		Headers: []string{"txn_id", "user_id", "date", "category", "amount", "note", "created_at"},
	}
	Budget = Table{
		Name:    "budget",
		Headers: []string{"budget_id", "user_id", "month", "category_norm", "monthly_goal"},
	}
	Roles = Table{
		Name:    "roles",
		Headers: []string{"email", "role", "updated_at"},
	}
)

// AllTables lists every table the planner needs.
func AllTables() []Table {
	return []Table{Users, Transactions, Budget, Roles}
}

// LookupTable finds a known table by name.
func LookupTable(name string) (Table, bool) {
	for _, t := range AllTables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Column returns the 1-based position of a header, or 0 if unknown.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i + 1
		}
	}
	return 0
}

// HeaderMismatch compares an existing header row with the expected one.
// A nil result means the header matches.
func HeaderMismatch(table string, expected, got []string) error {
	trimmed := make([]string, 0, len(got))
	for _, h := range got {
		trimmed = append(trimmed, trim(h))
	}
	// Trailing empty cells are common in spreadsheets.
	for len(trimmed) > 0 && trimmed[len(trimmed)-1] == "" {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if len(trimmed) == len(expected) {
		same := true
		for i := range expected {
			if trimmed[i] != expected[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}
	return fmt.Errorf("%w: unexpected %s header row %v, expected %v", core.ErrSchema, table, trimmed, expected)
}

// RowsFromValues converts a raw value matrix whose first row is the header
// into data rows. Short rows are padded with empty values.
func RowsFromValues(values [][]string) []Row {
	if len(values) == 0 {
		return nil
	}
	header := values[0]
	rows := make([]Row, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		raw := values[i]
		blank := true
		m := make(map[string]string, len(header))
		for j, h := range header {
			h = trim(h)
			if h == "" {
				continue
			}
			v := ""
			if j < len(raw) {
				v = raw[j]
			}
			if trim(v) != "" {
				blank = false
			}
			m[h] = v
		}
		if blank {
			continue
		}
		rows = append(rows, Row{Index: i + 1, Values: m})
	}
	return rows
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
