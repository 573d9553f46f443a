package client

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when the login to link has no user row.
var ErrUserNotFound = errors.New("user not found")

// Repository provides operations on the clients table.
type Repository interface {
	// Upsert inserts the client, or updates the existing row matching
	// (phone, company). The client's ID is set either way.
	Upsert(ctx context.Context, c *Client) error
	// LinkToUser stores the client id (and optional photo) on the user
	// row identified by login.
	LinkToUser(ctx context.Context, login string, clientID int64, photo *string) error
	// ProfileForLogin returns the client record linked to a user.
	ProfileForLogin(ctx context.Context, login string) (*LinkedProfile, error)
}
