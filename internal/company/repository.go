package company

import (
	"context"
	"errors"
)

// ErrCompanyNotFound is returned when an active company record is not found.
var ErrCompanyNotFound = errors.New("company not found")

// ErrUnitNotFound is returned when no active unit exists with the given
// id under the given company.
var ErrUnitNotFound = errors.New("unit not found")

// Repository provides read access to the companies and branches tables.
type Repository interface {
	// ListForLogin returns all active companies the login has a
	// membership row for.
	ListForLogin(ctx context.Context, login string) ([]Company, error)
	// UnitsForCompany returns all active units belonging to a company.
	UnitsForCompany(ctx context.Context, companyID int64) ([]Unit, error)
	// HasMembership reports whether the login has a membership row for
	// an active company.
	HasMembership(ctx context.Context, login string, companyID int64) (bool, error)
	// GetActiveCompany retrieves an active company by id.
	GetActiveCompany(ctx context.Context, id int64) (*Company, error)
	// GetActiveUnit retrieves an active unit by id, constrained to the
	// given company.
	GetActiveUnit(ctx context.Context, unitID, companyID int64) (*Unit, error)
	// ListAll returns every company regardless of membership, for
	// administrative lookups.
	ListAll(ctx context.Context) ([]Company, error)
}
