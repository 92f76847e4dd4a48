package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"budgetplanner/internal/core"
	"budgetplanner/internal/log"
	ports "budgetplanner/internal/sheets"
)

// Directory maps emails to accounts and roles. Emails are normalized
// before every comparison, so lookups are case and whitespace insensitive.
type Directory struct {
	store ports.RowStore
	now   func() time.Time
	newID func() string
	log   *log.Logger
}

func NewDirectory(store ports.RowStore, now func() time.Time, newID func() string, logger *log.Logger) *Directory {
	return &Directory{store: store, now: now, newID: newID, log: logger.WithComponent(log.ComponentDirectory)}
}

// Lookup finds the user registered under email. The returned user carries
// RoleUser; use Role for the stored role.
func (d *Directory) Lookup(ctx context.Context, email string) (core.User, error) {
	u, _, err := d.find(ctx, email)
	return u, err
}

// Create registers a new account. It fails with core.ErrAlreadyExists when
// the email is taken under any casing.
func (d *Directory) Create(ctx context.Context, email, passwordHash string) (core.User, error) {
	norm, err := core.NormalizeEmail(email)
	if err != nil {
		return core.User{}, err
	}
	if _, _, err := d.find(ctx, norm); err == nil {
		return core.User{}, fmt.Errorf("%w: email %s is already registered", core.ErrAlreadyExists, norm)
	} else if !isNotFound(err) {
		return core.User{}, err
	}

	u := core.User{
		ID:           d.newID(),
		Email:        norm,
		PasswordHash: passwordHash,
		CreatedAt:    d.now().UTC(),
		Role:         core.RoleUser,
	}
	if err := d.store.AppendRow(ctx, ports.Users.Name, ports.EncodeUser(u)); err != nil {
		return core.User{}, fmt.Errorf("append user: %w", err)
	}
	d.log.InfoContext(ctx, "User created", log.FieldUserID, u.ID, log.FieldEmail, u.Email)
	return u, nil
}

// UpdateCredential overwrites the stored password hash.
func (d *Directory) UpdateCredential(ctx context.Context, email, passwordHash string) error {
	u, row, err := d.find(ctx, email)
	if err != nil {
		return err
	}
	col := ports.Users.Column("password_hash")
	if err := d.store.UpdateCell(ctx, ports.Users.Name, row.Index, col, passwordHash); err != nil {
		return fmt.Errorf("update credential: %w", err)
	}
	d.log.InfoContext(ctx, "Credential updated", log.FieldUserID, u.ID)
	return nil
}

// Role returns the stored role, or RoleUser when the account has no entry.
func (d *Directory) Role(ctx context.Context, email string) (core.Role, error) {
	norm, err := core.NormalizeEmail(email)
	if err != nil {
		return "", err
	}
	roles, err := d.roles(ctx)
	if err != nil {
		return "", err
	}
	if rr, ok := roles[norm]; ok {
		return rr.Role, nil
	}
	return core.RoleUser, nil
}

// SetRole creates the role entry for an existing account or updates it in place.
func (d *Directory) SetRole(ctx context.Context, email string, role core.Role) error {
	if _, err := core.ParseRole(string(role)); err != nil {
		return err
	}
	u, _, err := d.find(ctx, email)
	if err != nil {
		return err
	}

	rows, err := d.store.GetAllRows(ctx, ports.Roles.Name)
	if err != nil {
		return fmt.Errorf("read roles: %w", err)
	}
	stamp := d.now().UTC()
	for _, r := range rows {
		rr, err := ports.DecodeRole(r)
		if err != nil || rr.Email != u.Email {
			continue
		}
		if err := d.store.UpdateCell(ctx, ports.Roles.Name, r.Index, ports.Roles.Column("role"), role.String()); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		if err := d.store.UpdateCell(ctx, ports.Roles.Name, r.Index, ports.Roles.Column("updated_at"), ports.FormatTimestamp(stamp)); err != nil {
			return fmt.Errorf("update role timestamp: %w", err)
		}
		d.log.InfoContext(ctx, "Role updated", log.FieldEmail, u.Email, log.FieldRole, role)
		return nil
	}

	rr := ports.RoleRow{Email: u.Email, Role: role, UpdatedAt: stamp}
	if err := d.store.AppendRow(ctx, ports.Roles.Name, ports.EncodeRole(rr)); err != nil {
		return fmt.Errorf("append role: %w", err)
	}
	d.log.InfoContext(ctx, "Role assigned", log.FieldEmail, u.Email, log.FieldRole, role)
	return nil
}

// List returns up to limit accounts in registration order, each with its
// stored role. A limit of zero or less yields no accounts.
func (d *Directory) List(ctx context.Context, limit int) ([]core.User, error) {
	if limit <= 0 {
		return []core.User{}, nil
	}
	users, err := d.users(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := d.roles(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > limit {
		users = users[:limit]
	}
	for i := range users {
		if rr, ok := roles[users[i].Email]; ok {
			users[i].Role = rr.Role
		}
	}
	return users, nil
}

func (d *Directory) find(ctx context.Context, email string) (core.User, ports.Row, error) {
	norm, err := core.NormalizeEmail(email)
	if err != nil {
		return core.User{}, ports.Row{}, err
	}
	rows, err := d.store.GetAllRows(ctx, ports.Users.Name)
	if err != nil {
		return core.User{}, ports.Row{}, fmt.Errorf("read users: %w", err)
	}
	for _, r := range rows {
		u, err := ports.DecodeUser(r)
		if err != nil {
			continue
		}
		if u.Email == norm {
			return u, r, nil
		}
	}
	return core.User{}, ports.Row{}, fmt.Errorf("%w: %s", core.ErrUnknownUser, norm)
}

func (d *Directory) users(ctx context.Context) ([]core.User, error) {
	rows, err := d.store.GetAllRows(ctx, ports.Users.Name)
	if err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	out := make([]core.User, 0, len(rows))
	for _, r := range rows {
		u, err := ports.DecodeUser(r)
		if err != nil {
			d.log.WarnContext(ctx, "Skipping malformed row", log.FieldTable, ports.Users.Name, log.FieldError, err)
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (d *Directory) roles(ctx context.Context) (map[string]ports.RoleRow, error) {
	rows, err := d.store.GetAllRows(ctx, ports.Roles.Name)
	if err != nil {
		return nil, fmt.Errorf("read roles: %w", err)
	}
	out := make(map[string]ports.RoleRow, len(rows))
	for _, r := range rows {
		rr, err := ports.DecodeRole(r)
		if err != nil {
			d.log.WarnContext(ctx, "Skipping malformed row", log.FieldTable, ports.Roles.Name, log.FieldError, err)
			continue
		}
		out[rr.Email] = rr
	}
	return out, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
