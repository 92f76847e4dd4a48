package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.planner.Signup(ctx, "", "secret1")
	assert.ErrorIs(t, err, core.ErrValidation)
	_, err = f.planner.Signup(ctx, "no-at-sign", "secret1")
	assert.ErrorIs(t, err, core.ErrInvalidEmail)
	_, err = f.planner.Signup(ctx, "a@x.com", "12345")
	assert.ErrorIs(t, err, core.ErrWeakPassword)
	_, err = f.planner.Signup(ctx, "a@x.com", strings.Repeat("p", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, core.ErrLongPassword)
	assert.True(t, IsUserError(err))

	u, err := f.planner.Signup(ctx, " A@X.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "plain:123456", u.PasswordHash)

	_, err = f.planner.Signup(ctx, "a@x.com", "123456")
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.planner.Signup(ctx, "a@x.com", "secret1")
	require.NoError(t, err)

	_, err = f.planner.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = f.planner.Login(ctx, "ghost@x.com", "secret1")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)

	s, err := f.planner.Login(ctx, " A@x.COM ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, core.Session{Email: "a@x.com", Role: core.RoleUser}, s)

	s = f.planner.Logout()
	assert.True(t, s.IsAnonymous())
	_, err = f.planner.WhoAmI(ctx, s, "")
	assert.ErrorIs(t, err, core.ErrNotLoggedIn)
}

func TestLoginDefaultsToLeastPrivilegeWhenRolesUnreadable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.editor(t, "ed@x.com")

	f.store.failRead = ports.Roles.Name
	s, err := f.planner.Login(ctx, "ed@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, s.Role)
}

func TestWhoAmI(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice@x.com")
	ed := f.editor(t, "ed@x.com")

	u, err := f.planner.WhoAmI(ctx, alice, "")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)
	assert.Equal(t, core.RoleUser, u.Role)

	u, err = f.planner.WhoAmI(ctx, ed, "ALICE@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", u.Email)

	u, err = f.planner.WhoAmI(ctx, ed, "")
	require.NoError(t, err)
	assert.Equal(t, core.RoleEditor, u.Role)

	_, err = f.planner.WhoAmI(ctx, ed, "ghost@x.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestAuthorizationIsolation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice@x.com")
	bob := f.signup(t, "bob@x.com")
	f.addTxn(t, bob, "2025-10-01", "groceries", "10")
	f.store.reset()

	ops := map[string]func() error{
		"whoami": func() error { _, err := f.planner.WhoAmI(ctx, alice, "bob@x.com"); return err },
		"add-txn": func() error {
			_, err := f.planner.AddTransaction(ctx, alice, TransactionInput{Email: "bob@x.com", Date: "2025-10-01", Category: "misc", Amount: "1"})
			return err
		},
		"list-txns": func() error {
			_, err := f.planner.ListTransactions(ctx, alice, ListTransactionsInput{Email: "bob@x.com"})
			return err
		},
		"set-goal": func() error {
			_, err := f.planner.SetGoal(ctx, alice, GoalInput{Email: "bob@x.com", Month: "2025-10", Category: "misc", Amount: "5"})
			return err
		},
		"list-goals":    func() error { _, err := f.planner.ListGoals(ctx, alice, "bob@x.com", ""); return err },
		"sum-month":     func() error { _, err := f.planner.MonthlyTotal(ctx, alice, "bob@x.com", "2025-10"); return err },
		"summary":       func() error { _, err := f.planner.SummarizeByCategory(ctx, alice, "bob@x.com", ""); return err },
		"budget-status": func() error { _, err := f.planner.GoalsVsSpend(ctx, alice, "bob@x.com", ""); return err },
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			f.store.reset()
			err := op()
			assert.ErrorIs(t, err, core.ErrForbidden)
			assert.Empty(t, f.store.touched(), "no store access before authorization")
		})
	}
}

func TestAnonymousCallsTouchNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.reset()

	_, err := f.planner.AddTransaction(ctx, core.Session{}, TransactionInput{Date: "2025-10-01", Category: "misc", Amount: "1"})
	assert.ErrorIs(t, err, core.ErrNotLoggedIn)
	_, err = f.planner.ListUsers(ctx, core.Session{}, intPtr(10))
	assert.ErrorIs(t, err, core.ErrNotLoggedIn)
	assert.Empty(t, f.store.touched())
}

func TestEditorOnlyOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice@x.com")
	ed := f.editor(t, "ed@x.com")

	_, err := f.planner.ListUsers(ctx, alice, intPtr(10))
	assert.ErrorIs(t, err, core.ErrForbidden)
	err = f.planner.SetRole(ctx, alice, "alice@x.com", "editor")
	assert.ErrorIs(t, err, core.ErrForbidden)

	users, err := f.planner.ListUsers(ctx, ed, intPtr(10))
	require.NoError(t, err)
	assert.Len(t, users, 2)

	f.planner.listLimit = 1
	users, err = f.planner.ListUsers(ctx, ed, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1, "configured list default applies without a limit")

	require.NoError(t, f.planner.SetRole(ctx, ed, " Alice@x.com", "EDITOR"))
	s, err := f.planner.Login(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	assert.True(t, s.IsEditor())

	assert.ErrorIs(t, f.planner.SetRole(ctx, ed, "alice@x.com", "admin"), core.ErrInvalidRole)
	assert.ErrorIs(t, f.planner.SetRole(ctx, ed, "", "user"), core.ErrValidation)
	assert.ErrorIs(t, f.planner.SetRole(ctx, ed, "ghost@x.com", "user"), core.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")

	assert.ErrorIs(t, f.planner.ChangePassword(ctx, s, "wrong", "newpass"), core.ErrInvalidCredentials)
	assert.ErrorIs(t, f.planner.ChangePassword(ctx, s, "secret1", "123"), core.ErrWeakPassword)
	assert.ErrorIs(t, f.planner.ChangePassword(ctx, s, "secret1", strings.Repeat("ü", 37)), core.ErrLongPassword)
	assert.ErrorIs(t, f.planner.ChangePassword(ctx, core.Session{}, "secret1", "newpass"), core.ErrNotLoggedIn)

	require.NoError(t, f.planner.ChangePassword(ctx, s, "secret1", "newpass"))
	_, err := f.planner.Login(ctx, "a@x.com", "secret1")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	_, err = f.planner.Login(ctx, "a@x.com", "newpass")
	assert.NoError(t, err)
}

func TestAddTransactionRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")

	cases := map[string]TransactionInput{
		"zero amount":  {Date: "2025-10-01", Category: "misc", Amount: "0"},
		"zero decimal": {Date: "2025-10-01", Category: "misc", Amount: "0.00"},
		"bad amount":   {Date: "2025-10-01", Category: "misc", Amount: "ten"},
		"bad category": {Date: "2025-10-01", Category: "pets", Amount: "3"},
		"bad date":     {Date: "2025-02-30", Category: "misc", Amount: "3"},
	}
	for name, in := range cases {
		_, err := f.planner.AddTransaction(ctx, s, in)
		assert.ErrorIs(t, err, core.ErrValidation, name)
	}
	rows, err := f.store.GetAllRows(ctx, ports.Transactions.Name)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAddTransactionDefaultsDateToToday(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")

	f.addTxn(t, s, "", "misc", "2,50")
	txs, err := f.planner.ListTransactions(ctx, s, ListTransactionsInput{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2025-10-15", txs[0].Date.String())
	assert.Equal(t, "2.50", txs[0].Amount.String())
}

func TestEditorActsOnOtherAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.signup(t, "alice@x.com")
	ed := f.editor(t, "ed@x.com")

	_, err := f.planner.AddTransaction(ctx, ed, TransactionInput{Email: "alice@x.com", Date: "2025-10-02", Category: "groceries", Amount: "10"})
	require.NoError(t, err)
	_, err = f.planner.SetGoal(ctx, ed, GoalInput{Email: "alice@x.com", Month: "2025-10", Category: "groceries", Amount: "100"})
	require.NoError(t, err)

	own, err := f.planner.ListTransactions(ctx, alice, ListTransactionsInput{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	edOwn, err := f.planner.ListTransactions(ctx, ed, ListTransactionsInput{})
	require.NoError(t, err)
	assert.Empty(t, edOwn)

	goals, err := f.planner.ListGoals(ctx, alice, "", "2025-10")
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestReportsThroughPlanner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")
	f.addTxn(t, s, "2025-10-02", "groceries", "10.00")
	f.addTxn(t, s, "2025-10-09", "groceries", "5.50")
	f.addTxn(t, s, "2025-10-20", "transport", "20.00")
	_, err := f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-10", Category: "transport", Amount: "45.00"})
	require.NoError(t, err)

	total, err := f.planner.MonthlyTotal(ctx, s, "", "2025-10")
	require.NoError(t, err)
	assert.Equal(t, "35.50", total.String())

	_, err = f.planner.MonthlyTotal(ctx, s, "", "2025-13")
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	summary, err := f.planner.SummarizeByCategory(ctx, s, "", "2025-10")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "15.50", summary[0].Total.String())

	rows, err := f.planner.GoalsVsSpend(ctx, s, "", "2025-10")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "25.00", rows[0].Diff.String())
}

func TestSetGoalThroughPlannerIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")

	first, err := f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-10", Category: "transport", Amount: "45"})
	require.NoError(t, err)
	second, err := f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-10", Category: "TRANSPORT", Amount: "50"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	goals, err := f.planner.ListGoals(ctx, s, "", "")
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "50.00", goals[0].MonthlyGoal.String())

	_, err = f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-10", Category: "transport", Amount: "0"})
	assert.ErrorIs(t, err, core.ErrInvalidGoal)
	_, err = f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-1", Category: "transport", Amount: "5"})
	assert.ErrorIs(t, err, core.ErrInvalidMonth)
}

func TestBudgetAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.signup(t, "a@x.com")
	_, err := f.planner.SetGoal(ctx, s, GoalInput{Month: "2025-10", Category: "transport", Amount: "100"})
	require.NoError(t, err)

	f.addTxn(t, s, "2025-10-01", "transport", "50")
	f.addTxn(t, s, "2025-10-01", "groceries", "500")
	assert.Empty(t, f.alerts.alerts)

	f.addTxn(t, s, "2025-10-02", "transport", "35")
	require.Len(t, f.alerts.alerts, 1)
	assert.Equal(t, core.AlertWarning, f.alerts.alerts[0].Level)
	assert.Equal(t, "85.00", f.alerts.alerts[0].Spent.String())
	assert.Equal(t, "a@x.com", f.alerts.alerts[0].Email)

	f.addTxn(t, s, "2025-10-03", "transport", "20")
	require.Len(t, f.alerts.alerts, 2)
	assert.Equal(t, core.AlertExceeded, f.alerts.alerts[1].Level)

	// Refunds never alert.
	f.addTxn(t, s, "2025-10-04", "transport", "-1")
	assert.Len(t, f.alerts.alerts, 2)

	// Publisher failures do not fail the write.
	f.alerts.err = errors.New("broker down")
	f.addTxn(t, s, "2025-10-05", "transport", "5")
}

func TestNewPlannerDefaults(t *testing.T) {
	p := NewPlanner(newMemoryStore(t), Options{Logger: log.Nop()})
	assert.NotNil(t, p.hasher)
	assert.Equal(t, DefaultListLimit, p.listLimit)
	assert.IsType(t, NopPublisher{}, p.alerts)
	assert.NoError(t, p.alerts.PublishBudgetAlert(context.Background(), core.BudgetAlert{}))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(core.ErrZeroAmount))
	assert.True(t, IsUserError(core.ErrAnotherAccount))
	assert.False(t, IsUserError(core.ErrSchema))
	assert.False(t, IsUserError(errors.New("io")))
}
