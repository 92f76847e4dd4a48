package sheets

import (
	"context"
	"log/slog"
	"time"

	"budgetplanner/internal/cache"
	"budgetplanner/internal/log"
)

// CachedStore keeps the last GetAllRows result of each table and drops it on
// any write to that table. It exists for remote backends where a report would
// otherwise re-read the same sheet several times in one invocation.
type CachedStore struct {
	next  RowStore
	cache cache.Cache[[]Row]
}

var _ RowStore = (*CachedStore)(nil)

func NewCachedStore(next RowStore, ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:  next,
		cache: cache.NewLRU[[]Row](len(AllTables()), ttl),
	}
}

func (s *CachedStore) GetAllRows(ctx context.Context, table string) ([]Row, error) {
	if rows, ok := s.cache.Get(table); ok {
		slog.DebugContext(ctx, "Row cache hit", log.FieldTable, table, log.FieldRows, len(rows), "hits", s.cache.Stats().Hits)
		return rows, nil
	}
	rows, err := s.next.GetAllRows(ctx, table)
	if err != nil {
		return nil, err
	}
	s.cache.Set(table, rows)
	return rows, nil
}

func (s *CachedStore) AppendRow(ctx context.Context, table string, values []string) error {
	defer s.cache.Delete(table)
	return s.next.AppendRow(ctx, table, values)
}

func (s *CachedStore) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	defer s.cache.Delete(table)
	return s.next.UpdateCell(ctx, table, row, col, value)
}

func (s *CachedStore) EnsureHeader(ctx context.Context, table string, headers []string) error {
	defer s.cache.Delete(table)
	return s.next.EnsureHeader(ctx, table, headers)
}

// Stats reports cache hits and misses so far.
func (s *CachedStore) Stats() cache.Stats {
	return s.cache.Stats()
}
