package accesskey

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned when no ledger row matches the given
// login and token.
var ErrKeyNotFound = errors.New("access key not found")

// Repository provides operations on the access_keys ledger.
//
// The ledger is advisory bookkeeping: request verification is stateless,
// so deleting a row does not revoke the token cryptographically.
type Repository interface {
	// Upsert inserts the key, or overwrites token, company, group and
	// timestamp when a row already exists for (login, unit).
	Upsert(ctx context.Context, key *Key) error
	// DeleteByToken removes the row matching both login and the exact
	// token string. Returns ErrKeyNotFound when no row matches.
	DeleteByToken(ctx context.Context, login, token string) error
	// GetByLoginUnit retrieves the current key for a (login, unit) pair.
	GetByLoginUnit(ctx context.Context, login string, unitID int64) (*Key, error)
}
