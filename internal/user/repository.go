package user

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateLogin is returned when a login is already taken.
var ErrDuplicateLogin = errors.New("login already exists")

// Repository provides CRUD operations on the user directory.
type Repository interface {
	// List returns one page of active users matching the filter plus
	// the total match count.
	List(ctx context.Context, f Filter) ([]Summary, int, error)
	// GetByLogin retrieves a user with group and company memberships.
	GetByLogin(ctx context.Context, login string) (*Detail, error)
	// Create inserts a user and its membership rows.
	Create(ctx context.Context, u *NewUser) error
	// Update applies the changes inside one transaction; a login rename
	// follows the schema's cascading foreign keys into the membership
	// tables.
	Update(ctx context.Context, login string, upd *Update) error
	// Deactivate soft-deletes a user by clearing the active flag.
	Deactivate(ctx context.Context, login string) error
	// ListGroups returns every group, for the registration form.
	ListGroups(ctx context.Context) ([]GroupRef, error)
}
