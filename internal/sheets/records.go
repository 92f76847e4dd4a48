package sheets

import (
	"fmt"
	"time"

	"budgetplanner/internal/core"
)

// Typed decoding of table rows. Every record is validated once here so
// callers never re-check field presence.

func DecodeUser(r Row) (core.User, error) {
	email, err := core.NormalizeEmail(r.Get("email"))
	if err != nil {
		return core.User{}, rowError(Users, r, err)
	}
	u := core.User{
		ID:           r.Get("user_id"),
		Email:        email,
		PasswordHash: r.Get("password_hash"),
		Role:         core.RoleUser,
	}
	if u.ID == "" {
		return core.User{}, rowError(Users, r, fmt.Errorf("missing user_id"))
	}
	u.CreatedAt, _ = parseTimestamp(r.Get("created_at"))
	return u, nil
}

func EncodeUser(u core.User) []string {
	return []string{u.ID, u.Email, u.PasswordHash, FormatTimestamp(u.CreatedAt)}
}

func DecodeTransaction(r Row) (core.Transaction, error) {
	date, err := core.ParseDate(r.Get("date"))
	if err != nil {
		return core.Transaction{}, rowError(Transactions, r, err)
	}
	amount, err := core.ParseMoney(r.Get("amount"))
	if err != nil {
		return core.Transaction{}, rowError(Transactions, r, err)
	}
	tx := core.Transaction{
		ID:       r.Get("txn_id"),
		UserID:   r.Get("user_id"),
		Date:     date,
		Category: r.Get("category"),
		Amount:   amount,
		Note:     r.Values["note"],
	}
	tx.Category, err = core.NormalizeCategory(tx.Category)
	if err != nil {
		return core.Transaction{}, rowError(Transactions, r, err)
	}
	if tx.ID == "" || tx.UserID == "" {
		return core.Transaction{}, rowError(Transactions, r, fmt.Errorf("missing txn_id or user_id"))
	}
	tx.CreatedAt, _ = parseTimestamp(r.Get("created_at"))
	return tx, nil
}

func EncodeTransaction(tx core.Transaction) []string {
	return []string{
		tx.ID,
		tx.UserID,
		tx.Date.String(),
		tx.Category,
		tx.Amount.Raw(),
		tx.Note,
		FormatTimestamp(tx.CreatedAt),
	}
}

func DecodeGoal(r Row) (core.BudgetGoal, error) {
	month, err := core.ParseMonth(r.Get("month"))
	if err != nil {
		return core.BudgetGoal{}, rowError(Budget, r, err)
	}
	goal, err := core.ParseMoney(r.Get("monthly_goal"))
	if err != nil {
		return core.BudgetGoal{}, rowError(Budget, r, err)
	}
	category, err := core.NormalizeCategory(r.Get("category_norm"))
	if err != nil {
		return core.BudgetGoal{}, rowError(Budget, r, err)
	}
	g := core.BudgetGoal{
		ID:          r.Get("budget_id"),
		UserID:      r.Get("user_id"),
		Month:       month,
		Category:    category,
		MonthlyGoal: goal,
	}
	if g.ID == "" || g.UserID == "" {
		return core.BudgetGoal{}, rowError(Budget, r, fmt.Errorf("missing budget_id or user_id"))
	}
	return g, nil
}

func EncodeGoal(g core.BudgetGoal) []string {
	return []string{g.ID, g.UserID, g.Month.String(), g.Category, g.MonthlyGoal.Raw()}
}

// RoleRow is one entry of the roles table.
type RoleRow struct {
	Email     string
	Role      core.Role
	UpdatedAt time.Time
}

func DecodeRole(r Row) (RoleRow, error) {
	email, err := core.NormalizeEmail(r.Get("email"))
	if err != nil {
		return RoleRow{}, rowError(Roles, r, err)
	}
	role, err := core.ParseRole(r.Get("role"))
	if err != nil {
		return RoleRow{}, rowError(Roles, r, err)
	}
	out := RoleRow{Email: email, Role: role}
	out.UpdatedAt, _ = parseTimestamp(r.Get("updated_at"))
	return out, nil
}

func EncodeRole(rr RoleRow) []string {
	return []string{rr.Email, rr.Role.String(), FormatTimestamp(rr.UpdatedAt)}
}

func rowError(t Table, r Row, err error) error {
	return fmt.Errorf("decode %s row %d: %w", t.Name, r.Index, err)
}

// FormatTimestamp renders t in UTC with core.TimestampLayout; zero is "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(core.TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(core.TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
