package company

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// ListForLogin returns the active companies the login is a member of.
func (r *PostgresRepository) ListForLogin(ctx context.Context, login string) ([]Company, error) {
	query := `
		SELECT c.id, c.description
		FROM user_companies uc
		INNER JOIN companies c ON uc.company_id = c.id
		WHERE uc.login = $1 AND c.active
		ORDER BY c.description ASC`

	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("listing companies for login: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	if companies == nil {
		companies = []Company{}
	}

	return companies, nil
}

// UnitsForCompany returns the active units under a company.
func (r *PostgresRepository) UnitsForCompany(ctx context.Context, companyID int64) ([]Unit, error) {
	query := `
		SELECT id, company_id, description
		FROM branches
		WHERE company_id = $1 AND active
		ORDER BY description ASC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing units for company: %w", err)
	}
	defer rows.Close()

	var units []Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Name); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit rows: %w", err)
	}

	if units == nil {
		units = []Unit{}
	}

	return units, nil
}

// HasMembership reports whether the login may act within the company.
func (r *PostgresRepository) HasMembership(ctx context.Context, login string, companyID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM user_companies uc
			INNER JOIN companies c ON uc.company_id = c.id
			WHERE uc.login = $1 AND c.id = $2 AND c.active
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, login, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking company membership: %w", err)
	}

	return exists, nil
}

// GetActiveCompany retrieves an active company by id.
func (r *PostgresRepository) GetActiveCompany(ctx context.Context, id int64) (*Company, error) {
	query := `
		SELECT id, description
		FROM companies
		WHERE id = $1 AND active`

	var c Company
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("querying company: %w", err)
	}

	return &c, nil
}

// GetActiveUnit retrieves an active unit by id under the given company.
func (r *PostgresRepository) GetActiveUnit(ctx context.Context, unitID, companyID int64) (*Unit, error) {
	query := `
		SELECT id, company_id, description
		FROM branches
		WHERE id = $1 AND company_id = $2 AND active`

	var u Unit
	err := r.pool.QueryRow(ctx, query, unitID, companyID).Scan(&u.ID, &u.CompanyID, &u.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, fmt.Errorf("querying unit: %w", err)
	}

	return &u, nil
}

// ListAll retrieves every company ordered by name.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]Company, error) {
	query := `
		SELECT id, description
		FROM companies
		ORDER BY description ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	if companies == nil {
		companies = []Company{}
	}

	return companies, nil
}
