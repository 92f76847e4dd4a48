package services

import (
	"strings"

	"budgetplanner/internal/core"
)

// ResolveActingIdentity decides which account an operation runs as.
//
// A regular user may only act on their own account; naming any other email
// fails with core.ErrAnotherAccount. An editor acts on the explicit email
// when one is given and on their own account otherwise. Without a session
// the call fails with core.ErrNotLoggedIn when requireAuthenticated is set,
// and otherwise yields the explicit email unchanged.
func ResolveActingIdentity(s core.Session, explicitEmail string, requireAuthenticated bool) (string, error) {
	explicit := normalize(explicitEmail)
	own := normalize(s.Email)

	if own == "" {
		if requireAuthenticated {
			return "", core.ErrNotLoggedIn
		}
		return explicit, nil
	}
	if explicit == "" || explicit == own {
		return own, nil
	}
	if s.Role == core.RoleEditor {
		return explicit, nil
	}
	return "", core.ErrAnotherAccount
}

// Authorize is ResolveActingIdentity with a session required. Every per-user
// planner operation goes through it before touching any record.
func Authorize(s core.Session, explicitEmail string) (string, error) {
	return ResolveActingIdentity(s, explicitEmail, true)
}

// RequireEditor gates role-restricted operations.
func RequireEditor(s core.Session) error {
	if s.IsAnonymous() {
		return core.ErrNotLoggedIn
	}
	if !s.IsEditor() {
		return core.ErrEditorOnly
	}
	return nil
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
