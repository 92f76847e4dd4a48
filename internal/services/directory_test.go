package services

import (
	"context"
	"testing"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(t *testing.T) (*Directory, *spyStore) {
	store := &spyStore{RowStore: newMemoryStore(t)}
	return NewDirectory(store, newClock().Now, sequentialIDs("u"), log.Nop()), store
}

func TestDirectoryLookupNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t)

	created, err := d.Create(ctx, " Foo@Bar.com ", "h")
	require.NoError(t, err)
	assert.Equal(t, "foo@bar.com", created.Email)

	for _, email := range []string{"foo@bar.com", " Foo@Bar.com ", "FOO@BAR.COM"} {
		u, err := d.Lookup(ctx, email)
		require.NoError(t, err, email)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, "foo@bar.com", u.Email)
	}
}

func TestDirectoryCreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDirectory(t)

	_, err := d.Create(ctx, "a@x.com", "h")
	require.NoError(t, err)
	_, err = d.Create(ctx, "A@X.COM", "h2")
	assert.ErrorIs(t, err, core.ErrAlreadyExists)

	rows, err := store.GetAllRows(ctx, ports.Users.Name)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDirectoryLookupUnknown(t *testing.T) {
	d, _ := newTestDirectory(t)
	_, err := d.Lookup(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = d.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDirectorySetRoleUpsertsInPlace(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDirectory(t)
	_, err := d.Create(ctx, "a@x.com", "h")
	require.NoError(t, err)

	role, err := d.Role(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, role, "no role row means user")

	require.NoError(t, d.SetRole(ctx, "a@x.com", core.RoleEditor))
	require.NoError(t, d.SetRole(ctx, "A@x.com", core.RoleUser))
	require.NoError(t, d.SetRole(ctx, "a@x.com", core.RoleEditor))

	rows, err := store.GetAllRows(ctx, ports.Roles.Name)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "editor", rows[0].Get("role"))
	assert.NotEmpty(t, rows[0].Get("updated_at"))

	role, err = d.Role(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, core.RoleEditor, role)

	assert.ErrorIs(t, d.SetRole(ctx, "ghost@x.com", core.RoleEditor), core.ErrNotFound)
	assert.ErrorIs(t, d.SetRole(ctx, "a@x.com", core.Role("admin")), core.ErrInvalidRole)
}

func TestDirectoryUpdateCredential(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDirectory(t)
	_, err := d.Create(ctx, "a@x.com", "old")
	require.NoError(t, err)

	require.NoError(t, d.UpdateCredential(ctx, "A@x.com", "new"))
	u, err := d.Lookup(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "new", u.PasswordHash)

	assert.ErrorIs(t, d.UpdateCredential(ctx, "ghost@x.com", "x"), core.ErrNotFound)
}

func TestDirectoryList(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDirectory(t)
	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, err := d.Create(ctx, e, "h")
		require.NoError(t, err)
	}
	require.NoError(t, d.SetRole(ctx, "b@x.com", core.RoleEditor))
	// A malformed row is skipped rather than failing the listing.
	require.NoError(t, store.AppendRow(ctx, ports.Users.Name, []string{"", "broken", "", ""}))

	users, err := d.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, core.RoleEditor, users[1].Role)
	assert.Equal(t, core.RoleUser, users[0].Role)

	users, err = d.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = d.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, users)
}
