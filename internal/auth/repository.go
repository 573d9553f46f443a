package auth

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when no user row matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// Repository provides the user-directory lookups the auth flows need.
type Repository interface {
	// GetByCredentials returns the user whose login and password digest
	// match exactly, joined to the user's group row. Returns
	// ErrUserNotFound when no pair matches.
	GetByCredentials(ctx context.Context, login, digest string) (*User, error)
	// PrimaryGroupID re-resolves the login's group id. Returns
	// ErrUserNotFound when the login has no group membership.
	PrimaryGroupID(ctx context.Context, login string) (int64, error)
	// GrantsForLogin returns every permission grant row for every group
	// the login belongs to.
	GrantsForLogin(ctx context.Context, login string) ([]PermissionGrant, error)
	// UpdateLocale persists the locale chosen at login on the user row.
	UpdateLocale(ctx context.Context, login, locale string) error
	// PractitionerID returns the linked practitioner identifier for a
	// login, or nil when none is linked.
	PractitionerID(ctx context.Context, login string) (*int64, error)
	// StudentID returns the linked student identifier for a login,
	// defaulting to empty when absent.
	StudentID(ctx context.Context, login string) (string, error)
}
