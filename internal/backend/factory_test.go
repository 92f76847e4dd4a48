package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budgetplanner/internal/config"
	"budgetplanner/internal/core"
	"budgetplanner/internal/services"
	ports "budgetplanner/internal/sheets"
	"budgetplanner/internal/sheets/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendTypeIsValid(t *testing.T) {
	assert.True(t, SQLiteBackend.IsValid())
	assert.True(t, MemoryBackend.IsValid())
	assert.False(t, BackendType("postgres").IsValid())
}

func TestFromAppConfig(t *testing.T) {
	cfg := config.Default()
	cfg.DataBackend = "sheets"
	cfg.GoogleSpreadsheetID = "sheet-1"
	cfg.CacheTTL = config.Duration{Duration: time.Minute}

	bc, err := FromAppConfig(&cfg)
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, bc.Type)
	assert.Equal(t, "sheet-1", bc.GoogleSpreadsheetID)
	assert.Equal(t, time.Minute, bc.CacheTTL)

	cfg.DataBackend = "postgres"
	_, err = FromAppConfig(&cfg)
	assert.Error(t, err)
	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: SheetsBackend}.Validate())
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	defer res.Close()

	assert.IsType(t, services.NopPublisher{}, res.Alerts)
	for _, tbl := range ports.AllTables() {
		rows, err := res.Store.GetAllRows(context.Background(), tbl.Name)
		require.NoError(t, err, tbl.Name)
		assert.Empty(t, rows)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bp.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	require.NoError(t, res.Store.AppendRow(context.Background(), ports.Users.Name, []string{"u1", "a@x.com", "h", ""}))
	require.NoError(t, res.Close())
}

func TestEnsureSchemaDetectsMismatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.EnsureHeader(ctx, ports.Budget.Name, []string{"budget_id", "user_id", "month"}))

	err := EnsureSchema(ctx, store)
	assert.True(t, errors.Is(err, core.ErrSchema), "got %v", err)

	store = memory.New()
	require.NoError(t, EnsureSchema(ctx, store))
	require.NoError(t, EnsureSchema(ctx, store), "second run is a no-op")
}
