package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"
	"budgetplanner/internal/sheets/memory"

	"github.com/stretchr/testify/require"
)

// newMemoryStore returns an in-memory store with every table initialized.
func newMemoryStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.New()
	for _, tbl := range ports.AllTables() {
		require.NoError(t, s.EnsureHeader(context.Background(), tbl.Name, tbl.Headers))
	}
	return s
}

// tickingClock advances one second per call so created_at values differ.
type tickingClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *tickingClock {
	return &tickingClock{t: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// plainHasher keeps tests fast; it is not a credential scheme.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }
func (plainHasher) Verify(p, h string) bool       { return h == "plain:"+p }

// spyStore records which tables were touched and can fail reads of one table.
type spyStore struct {
	ports.RowStore
	mu       sync.Mutex
	reads    []string
	writes   []string
	failRead string
}

func (s *spyStore) GetAllRows(ctx context.Context, table string) ([]ports.Row, error) {
	s.mu.Lock()
	s.reads = append(s.reads, table)
	fail := s.failRead == table
	s.mu.Unlock()
	if fail {
		return nil, errors.New("backend unavailable")
	}
	return s.RowStore.GetAllRows(ctx, table)
}

func (s *spyStore) AppendRow(ctx context.Context, table string, values []string) error {
	s.mu.Lock()
	s.writes = append(s.writes, table)
	s.mu.Unlock()
	return s.RowStore.AppendRow(ctx, table, values)
}

func (s *spyStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	s.mu.Lock()
	s.writes = append(s.writes, table)
	s.mu.Unlock()
	return s.RowStore.UpdateCell(ctx, table, row, col, value)
}

func (s *spyStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads, s.writes = nil, nil
}

func (s *spyStore) touched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(append([]string(nil), s.reads...), s.writes...)
}

// recordingPublisher keeps every alert it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	alerts []core.BudgetAlert
	err    error
}

func (r *recordingPublisher) PublishBudgetAlert(_ context.Context, a core.BudgetAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.alerts = append(r.alerts, a)
	return nil
}

type fixture struct {
	store   *spyStore
	planner *Planner
	alerts  *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &spyStore{RowStore: newMemoryStore(t)}
	alerts := &recordingPublisher{}
	p := NewPlanner(store, Options{
		Hasher: plainHasher{},
		Alerts: alerts,
		Logger: log.Nop(),
		Now:    newClock().Now,
		NewID:  sequentialIDs("id-"),
	})
	return &fixture{store: store, planner: p, alerts: alerts}
}

// signup registers email and returns a logged-in session for it.
func (f *fixture) signup(t *testing.T, email string) core.Session {
	t.Helper()
	ctx := context.Background()
	_, err := f.planner.Signup(ctx, email, "secret1")
	require.NoError(t, err)
	s, err := f.planner.Login(ctx, email, "secret1")
	require.NoError(t, err)
	return s
}

// editor registers email, promotes it through the directory and logs in.
func (f *fixture) editor(t *testing.T, email string) core.Session {
	t.Helper()
	ctx := context.Background()
	f.signup(t, email)
	require.NoError(t, f.planner.directory.SetRole(ctx, email, core.RoleEditor))
	s, err := f.planner.Login(ctx, email, "secret1")
	require.NoError(t, err)
	require.True(t, s.IsEditor())
	return s
}

func (f *fixture) addTxn(t *testing.T, s core.Session, date, category, amount string) string {
	t.Helper()
	id, err := f.planner.AddTransaction(context.Background(), s, TransactionInput{
		Date: date, Category: category, Amount: amount,
	})
	require.NoError(t, err)
	return id
}

func contains(tables []string, name string) bool {
	for _, t := range tables {
		if strings.EqualFold(t, name) {
			return true
		}
	}
	return false
}

func intPtr(n int) *int { return &n }
