package core

import "time"

// CategorySpend is the total of a set of transactions grouped by category.
type CategorySpend struct {
	Category string
	Total    Money
}

// GoalProgress compares a budget goal with the actual spend for its category.
type GoalProgress struct {
	Category string
	Month    Month
	Goal     Money
	Spent    Money
	Diff     Money // Goal - Spent
}

// AlertLevel grades how close spend is to a budget goal.
type AlertLevel string

const (
	AlertNone     AlertLevel = ""
	AlertWarning  AlertLevel = "warning"
	AlertExceeded AlertLevel = "exceeded"
)

// BudgetAlert is raised when spend in a category approaches or passes the
// monthly goal.
type BudgetAlert struct {
	UserID    string
	Email     string
	Month     Month
	Category  string
	Goal      Money
	Spent     Money
	Level     AlertLevel
	Timestamp time.Time
}
