package services

import (
	"context"
	"fmt"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"
)

// GoalStore keeps at most one goal per (user, month, category).
type GoalStore struct {
	store ports.RowStore
	newID func() string
	log   *log.Logger
}

func NewGoalStore(store ports.RowStore, newID func() string, logger *log.Logger) *GoalStore {
	return &GoalStore{store: store, newID: newID, log: logger.WithComponent(log.ComponentBudget)}
}

// GoalFilter selects goals for List. Zero fields do not filter.
type GoalFilter struct {
	UserID string
	Month  core.Month
}

// SetGoal upserts the goal for its key. An existing goal keeps its id and
// has only its amount overwritten.
func (s *GoalStore) SetGoal(ctx context.Context, userID string, month core.Month, category string, amount core.Money) (string, error) {
	cat, err := core.NormalizeCategory(category)
	if err != nil {
		return "", err
	}
	g := core.BudgetGoal{UserID: userID, Month: month, Category: cat, MonthlyGoal: amount}
	if err := g.Validate(); err != nil {
		return "", err
	}

	rows, err := s.store.GetAllRows(ctx, ports.Budget.Name)
	if err != nil {
		return "", fmt.Errorf("read budget: %w", err)
	}
	for _, r := range rows {
		existing, err := ports.DecodeGoal(r)
		if err != nil {
			continue
		}
		if existing.UserID != g.UserID || existing.Month != g.Month || existing.Category != g.Category {
			continue
		}
		col := ports.Budget.Column("monthly_goal")
		if err := s.store.UpdateCell(ctx, ports.Budget.Name, r.Index, col, amount.Raw()); err != nil {
			return "", fmt.Errorf("update goal: %w", err)
		}
		s.log.InfoContext(ctx, "Goal updated",
			log.FieldBudgetID, existing.ID,
			log.FieldMonth, g.Month.String(),
			log.FieldCategory, g.Category,
			log.FieldAmount, amount.String())
		return existing.ID, nil
	}

	g.ID = s.newID()
	if err := s.store.AppendRow(ctx, ports.Budget.Name, ports.EncodeGoal(g)); err != nil {
		return "", fmt.Errorf("append goal: %w", err)
	}
	s.log.InfoContext(ctx, "Goal created",
		log.FieldBudgetID, g.ID,
		log.FieldMonth, g.Month.String(),
		log.FieldCategory, g.Category,
		log.FieldAmount, amount.String())
	return g.ID, nil
}

// List returns goals in store order.
func (s *GoalStore) List(ctx context.Context, f GoalFilter) ([]core.BudgetGoal, error) {
	rows, err := s.store.GetAllRows(ctx, ports.Budget.Name)
	if err != nil {
		return nil, fmt.Errorf("read budget: %w", err)
	}
	out := make([]core.BudgetGoal, 0, len(rows))
	for _, r := range rows {
		g, err := ports.DecodeGoal(r)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping malformed row", log.FieldTable, ports.Budget.Name, log.FieldError, err)
			continue
		}
		if f.UserID != "" && g.UserID != f.UserID {
			continue
		}
		if !f.Month.IsZero() && g.Month != f.Month {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
