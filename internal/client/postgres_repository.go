package client

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

// Upsert writes the client row, deduplicating on (phone, company).
func (r *PostgresRepository) Upsert(ctx context.Context, c *Client) error {
	var id int64
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM clients WHERE phone = $1 AND company_id = $2`,
		c.Phone, c.CompanyID,
	).Scan(&id)

	switch {
	case err == nil:
		query := `
			UPDATE clients
			SET full_name = $1, email = $2, signup_at = $3`
		args := []any{c.FullName, c.Email, c.SignupAt}

		if c.Photo != nil {
			args = append(args, *c.Photo)
			query += fmt.Sprintf(", photo = $%d", len(args))
		}

		args = append(args, id)
		query += fmt.Sprintf(" WHERE id = $%d", len(args))

		if _, err := r.pool.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("updating client: %w", err)
		}
		c.ID = id

	case errors.Is(err, pgx.ErrNoRows):
		insert := `
			INSERT INTO clients (company_id, full_name, email, phone, signup_at, photo)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`

		err := r.pool.QueryRow(ctx, insert,
			c.CompanyID, c.FullName, c.Email, c.Phone, c.SignupAt, c.Photo,
		).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("inserting client: %w", err)
		}

	default:
		return fmt.Errorf("checking existing client: %w", err)
	}

	return nil
}

// LinkToUser stores the client id on the user row.
func (r *PostgresRepository) LinkToUser(ctx context.Context, login string, clientID int64, photo *string) error {
	query := `UPDATE users SET client_id = $1`
	args := []any{clientID}

	if photo != nil {
		args = append(args, *photo)
		query += fmt.Sprintf(", picture = $%d", len(args))
	}

	args = append(args, login)
	query += fmt.Sprintf(" WHERE login = $%d", len(args))

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("linking client to user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ProfileForLogin returns the client record linked to a user.
func (r *PostgresRepository) ProfileForLogin(ctx context.Context, login string) (*LinkedProfile, error) {
	query := `
		SELECT u.picture, c.id, c.full_name, c.phone
		FROM users u
		LEFT JOIN clients c ON c.id = u.client_id
		WHERE u.login = $1`

	var p LinkedProfile
	err := r.pool.QueryRow(ctx, query, login).Scan(&p.Picture, &p.ClientID, &p.FullName, &p.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying linked client: %w", err)
	}

	return &p, nil
}
