package backend

import (
	"context"
	"fmt"

	"budgetplanner/internal/amqp"
	"budgetplanner/internal/log"
	"budgetplanner/internal/services"
	ports "budgetplanner/internal/sheets"
	gsheet "budgetplanner/internal/sheets/google"
	"budgetplanner/internal/sheets/memory"
	"budgetplanner/internal/storage"

	"golang.org/x/sync/errgroup"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend builds the row store, checks every table header and connects
// the alert publisher. A header mismatch aborts with core.ErrSchema before
// anything is written.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *Result
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case SheetsBackend:
		res, err = f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, res.Store); err != nil {
		_ = res.Close()
		return nil, err
	}

	res.Alerts = f.createAlertPublisher(ctx, config, res)
	return res, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", log.FieldBackend, SQLiteBackend, "db_path", config.SQLiteDBPath)
	return &Result{Store: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	var store ports.RowStore = cli
	if config.CacheTTL > 0 {
		store = ports.NewCachedStore(cli, config.CacheTTL)
	}
	f.logger.InfoContext(ctx, "Initialized Google Sheets backend", log.FieldBackend, SheetsBackend, "cache_ttl", config.CacheTTL)
	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context) (*Result, error) {
	f.logger.InfoContext(ctx, "Initialized memory backend; data is lost on exit", log.FieldBackend, MemoryBackend)
	return &Result{Store: memory.New()}, nil
}

// createAlertPublisher falls back to a no-op publisher when AMQP is not
// configured or unreachable. Alerts are best effort.
func (f *DefaultFactory) createAlertPublisher(ctx context.Context, config Config, res *Result) services.AlertPublisher {
	if config.AMQPURL == "" {
		return services.NopPublisher{}
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without budget alerts", log.FieldError, err)
		return services.NopPublisher{}
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)

	prev := res.Cleanup
	res.Cleanup = func() error {
		_ = client.Close()
		if prev != nil {
			return prev()
		}
		return nil
	}
	return client
}

// EnsureSchema checks the header of every table concurrently.
func EnsureSchema(ctx context.Context, store ports.RowStore) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, t := range ports.AllTables() {
		g.Go(func() error {
			if err := store.EnsureHeader(gctx, t.Name, t.Headers); err != nil {
				return fmt.Errorf("ensure %s header: %w", t.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
