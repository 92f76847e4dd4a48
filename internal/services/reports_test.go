package services

import (
	"context"
	"testing"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	ledger *Ledger
	goals  *GoalStore
	rec    *Reconciler
}

func newReportFixture(t *testing.T) reportFixture {
	store := newMemoryStore(t)
	ids := sequentialIDs("r")
	l := NewLedger(store, newClock().Now, ids, 0, log.Nop())
	g := NewGoalStore(store, ids, log.Nop())
	return reportFixture{ledger: l, goals: g, rec: NewReconciler(l, g)}
}

func (f reportFixture) add(t *testing.T, user, date, cat, amount string) {
	t.Helper()
	d, err := core.ParseDate(date)
	require.NoError(t, err)
	_, err = f.ledger.Add(context.Background(), user, d, cat, money(t, amount), "")
	require.NoError(t, err)
}

func TestSummaryAndMonthlyTotal(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	f.add(t, "u1", "2025-10-02", "groceries", "10.00")
	f.add(t, "u1", "2025-10-09", "groceries", "5.50")
	f.add(t, "u1", "2025-10-20", "transport", "20.00")
	f.add(t, "u1", "2025-11-01", "transport", "99")
	f.add(t, "u2", "2025-10-02", "groceries", "1000")

	summary, err := f.rec.SummarizeByCategory(ctx, "u1", core.MonthPeriod(month(t, "2025-10")))
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "groceries", summary[0].Category)
	assert.Equal(t, "15.50", summary[0].Total.String())
	assert.Equal(t, "transport", summary[1].Category)
	assert.Equal(t, "20.00", summary[1].Total.String())

	total, err := f.rec.MonthlyTotal(ctx, month(t, "2025-10"), "u1")
	require.NoError(t, err)
	assert.Equal(t, "35.50", total.String())

	everyone, err := f.rec.MonthlyTotal(ctx, month(t, "2025-10"), "")
	require.NoError(t, err)
	assert.Equal(t, "1035.50", everyone.String())

	day, err := core.ParsePeriod("2025-10-09")
	require.NoError(t, err)
	summary, err = f.rec.SummarizeByCategory(ctx, "u1", day)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "5.50", summary[0].Total.String())

	summary, err = f.rec.SummarizeByCategory(ctx, "u1", core.Period{})
	require.NoError(t, err)
	assert.Equal(t, "119.00", summary[1].Total.String())
}

func TestMonthlyTotalRoundsToCents(t *testing.T) {
	f := newReportFixture(t)
	f.add(t, "u1", "2025-10-02", "misc", "0.333")
	f.add(t, "u1", "2025-10-03", "misc", "0.333")

	total, err := f.rec.MonthlyTotal(context.Background(), month(t, "2025-10"), "u1")
	require.NoError(t, err)
	assert.True(t, total.Equal(money(t, "0.67")), total.Raw())
}

func TestGoalsVsSpend(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	f.add(t, "u1", "2025-10-02", "groceries", "10.00")
	f.add(t, "u1", "2025-10-09", "groceries", "5.50")
	f.add(t, "u1", "2025-10-20", "transport", "20.00")
	_, err := f.goals.SetGoal(ctx, "u1", month(t, "2025-10"), "transport", money(t, "45.00"))
	require.NoError(t, err)

	rows, err := f.rec.GoalsVsSpend(ctx, "u1", month(t, "2025-10"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "groceries has spend but no goal")
	assert.Equal(t, "transport", rows[0].Category)
	assert.Equal(t, "45.00", rows[0].Goal.String())
	assert.Equal(t, "20.00", rows[0].Spent.String())
	assert.Equal(t, "25.00", rows[0].Diff.String())
}

func TestGoalsVsSpendWithoutSpendOrMonth(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t)
	_, err := f.goals.SetGoal(ctx, "u1", month(t, "2025-10"), "health", money(t, "30"))
	require.NoError(t, err)
	_, err = f.goals.SetGoal(ctx, "u1", month(t, "2025-11"), "transport", money(t, "45"))
	require.NoError(t, err)
	f.add(t, "u1", "2025-10-20", "transport", "20")
	f.add(t, "u1", "2025-11-20", "transport", "5")

	rows, err := f.rec.GoalsVsSpend(ctx, "u1", core.Month{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Spent.IsZero())
	assert.Equal(t, "30.00", rows[0].Diff.String())
	// No month means spend is not restricted to the goal's month.
	assert.Equal(t, "25.00", rows[1].Spent.String())

	rows, err = f.rec.GoalsVsSpend(ctx, "u1", month(t, "2025-11"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5.00", rows[0].Spent.String())
	assert.Equal(t, "40.00", rows[0].Diff.String())

	rows, err = f.rec.GoalsVsSpend(ctx, "u2", core.Month{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAlertLevelFor(t *testing.T) {
	cases := []struct {
		goal, spent string
		want        core.AlertLevel
	}{
		{"100", "50", core.AlertNone},
		{"100", "80", core.AlertNone},
		{"100", "80.01", core.AlertWarning},
		{"100", "100", core.AlertWarning},
		{"100", "100.01", core.AlertExceeded},
	}
	for _, c := range cases {
		if got := AlertLevelFor(money(t, c.goal), money(t, c.spent)); got != c.want {
			t.Errorf("AlertLevelFor(%s, %s) = %q, want %q", c.goal, c.spent, got, c.want)
		}
	}
	if AlertLevelFor(core.Money{}, money(t, "5")) != core.AlertNone {
		t.Errorf("zero goal never alerts")
	}
}
