package core

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps one of these so callers
// can branch with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("forbidden")
	// ErrSchema reports a header row that does not match the expected table
	// layout. It is not recoverable.
	ErrSchema = errors.New("schema mismatch")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAlreadyExists      = errors.New("already exists")
)

var (
	ErrInvalidCategory = fmt.Errorf("%w: invalid category", ErrValidation)
	ErrZeroAmount      = fmt.Errorf("%w: amount cannot be zero", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidGoal     = fmt.Errorf("%w: monthly goal must be positive", ErrValidation)
	ErrInvalidMonth    = fmt.Errorf("%w: invalid month", ErrValidation)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidRole     = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrEmptyEmail      = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrValidation)
	ErrWeakPassword    = fmt.Errorf("%w: password must be at least 6 characters long", ErrValidation)
	ErrLongPassword    = fmt.Errorf("%w: password must be at most 72 bytes long", ErrValidation)
	ErrMissingUser     = fmt.Errorf("%w: user reference is required", ErrValidation)

	ErrAnotherAccount = fmt.Errorf("%w: cannot act on another account", ErrForbidden)
	ErrEditorOnly     = fmt.Errorf("%w: editor role required", ErrForbidden)
	ErrUnknownUser    = fmt.Errorf("%w: no account found for that email", ErrNotFound)
)
