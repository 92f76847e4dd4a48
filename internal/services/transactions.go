package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"
)

// DefaultListLimit caps List when the caller gives no limit.
const DefaultListLimit = 20

// Ledger is the append-only transaction stream.
type Ledger struct {
	store        ports.RowStore
	now          func() time.Time
	newID        func() string
	defaultLimit int
	log          *log.Logger
}

func NewLedger(store ports.RowStore, now func() time.Time, newID func() string, defaultLimit int, logger *log.Logger) *Ledger {
	if defaultLimit <= 0 {
		defaultLimit = DefaultListLimit
	}
	return &Ledger{
		store:        store,
		now:          now,
		newID:        newID,
		defaultLimit: defaultLimit,
		log:          logger.WithComponent(log.ComponentLedger),
	}
}

// TransactionFilter selects transactions for List. Zero fields do not filter.
// A nil Limit applies the ledger default; a limit of zero or less yields
// nothing.
type TransactionFilter struct {
	UserID string
	Date   core.Date
	Limit  *int
}

// Add validates and appends one transaction, returning its new id.
func (l *Ledger) Add(ctx context.Context, userID string, date core.Date, category string, amount core.Money, note string) (string, error) {
	cat, err := core.NormalizeCategory(category)
	if err != nil {
		return "", err
	}
	tx := core.Transaction{
		ID:        l.newID(),
		UserID:    userID,
		Date:      date,
		Category:  cat,
		Amount:    amount,
		Note:      note,
		CreatedAt: l.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}
	if err := l.store.AppendRow(ctx, ports.Transactions.Name, ports.EncodeTransaction(tx)); err != nil {
		return "", fmt.Errorf("append transaction: %w", err)
	}
	l.log.InfoContext(ctx, "Transaction added",
		log.FieldTxnID, tx.ID,
		log.FieldUserID, tx.UserID,
		log.FieldCategory, tx.Category,
		log.FieldAmount, tx.Amount.String())
	return tx.ID, nil
}

// List returns matching transactions, newest created_at first. Ties keep
// store order.
func (l *Ledger) List(ctx context.Context, f TransactionFilter) ([]core.Transaction, error) {
	limit := l.defaultLimit
	if f.Limit != nil {
		limit = *f.Limit
	}
	if limit <= 0 {
		return []core.Transaction{}, nil
	}

	txs, err := l.Scan(ctx, f.UserID)
	if err != nil {
		return nil, err
	}
	if !f.Date.IsZero() {
		kept := txs[:0]
		for _, tx := range txs {
			if tx.Date.Equal(f.Date.Time) {
				kept = append(kept, tx)
			}
		}
		txs = kept
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// Scan decodes every transaction in store order, restricted to userID when
// it is not empty. Malformed rows are skipped with a warning.
func (l *Ledger) Scan(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := l.store.GetAllRows(ctx, ports.Transactions.Name)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, r := range rows {
		tx, err := ports.DecodeTransaction(r)
		if err != nil {
			l.log.WarnContext(ctx, "Skipping malformed row", log.FieldTable, ports.Transactions.Name, log.FieldError, err)
			continue
		}
		if userID != "" && tx.UserID != userID {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}
