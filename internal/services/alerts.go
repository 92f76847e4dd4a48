package services

import (
	"context"

	"budgetplanner/internal/core"

	"github.com/shopspring/decimal"
)

// AlertPublisher delivers budget alerts to whoever watches them.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, alert core.BudgetAlert) error
}

// NopPublisher drops every alert.
type NopPublisher struct{}

func (NopPublisher) PublishBudgetAlert(context.Context, core.BudgetAlert) error { return nil }

// warningRatio is the share of a goal at which spend starts raising warnings.
var warningRatio = decimal.New(8, -1)

// AlertLevelFor grades spend against a goal: exceeded above the goal,
// warning above 80% of it.
func AlertLevelFor(goal, spent core.Money) core.AlertLevel {
	if !goal.IsPositive() {
		return core.AlertNone
	}
	switch {
	case spent.GreaterThan(goal):
		return core.AlertExceeded
	case spent.Decimal().GreaterThan(goal.Decimal().Mul(warningRatio)):
		return core.AlertWarning
	default:
		return core.AlertNone
	}
}
