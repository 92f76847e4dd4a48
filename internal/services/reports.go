package services

import (
	"context"
	"sort"

	"budgetplanner/internal/core"

	"golang.org/x/sync/errgroup"
)

// Reconciler derives reports from the transaction and goal streams.
type Reconciler struct {
	ledger *Ledger
	goals  *GoalStore
}

func NewReconciler(ledger *Ledger, goals *GoalStore) *Reconciler {
	return &Reconciler{ledger: ledger, goals: goals}
}

// MonthlyTotal sums the amounts dated within month, rounded to cents.
// An empty userID covers every user.
func (r *Reconciler) MonthlyTotal(ctx context.Context, month core.Month, userID string) (core.Money, error) {
	txs, err := r.ledger.Scan(ctx, userID)
	if err != nil {
		return core.Money{}, err
	}
	total := core.Money{}
	for _, tx := range txs {
		if month.Contains(tx.Date) {
			total = total.Add(tx.Amount)
		}
	}
	return total.Round2(), nil
}

// SummarizeByCategory totals matching transactions per category, sorted by
// category name.
func (r *Reconciler) SummarizeByCategory(ctx context.Context, userID string, period core.Period) ([]core.CategorySpend, error) {
	txs, err := r.ledger.Scan(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]core.Money)
	for _, tx := range txs {
		if period.Contains(tx.Date) {
			totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
		}
	}
	out := make([]core.CategorySpend, 0, len(totals))
	for cat, total := range totals {
		out = append(out, core.CategorySpend{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// GoalsVsSpend reports one row per goal of userID, in goal store order.
// Spend counts the user's transactions in the goal's category, restricted to
// month when it is set. Categories with spend but no goal are left out.
func (r *Reconciler) GoalsVsSpend(ctx context.Context, userID string, month core.Month) ([]core.GoalProgress, error) {
	var (
		goals []core.BudgetGoal
		txs   []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = r.goals.List(gctx, GoalFilter{UserID: userID, Month: month})
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = r.ledger.Scan(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]core.GoalProgress, 0, len(goals))
	for _, goal := range goals {
		spent := core.Money{}
		for _, tx := range txs {
			if tx.Category == goal.Category && month.Contains(tx.Date) {
				spent = spent.Add(tx.Amount)
			}
		}
		out = append(out, core.GoalProgress{
			Category: goal.Category,
			Month:    goal.Month,
			Goal:     goal.MonthlyGoal,
			Spent:    spent,
			Diff:     goal.MonthlyGoal.Sub(spent),
		})
	}
	return out, nil
}
