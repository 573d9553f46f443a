package accesskey

import "time"

// Key represents a row in the access_keys ledger. At most one live key
// exists per (login, unit) pair; re-selecting the same unit overwrites
// the token and timestamp.
type Key struct {
	Login     string
	CompanyID int64
	UnitID    int64
	GroupID   int64
	Token     string
	IssuedAt  time.Time
}
