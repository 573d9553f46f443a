package accesskey

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

// Upsert writes the ledger row for (login, unit) in a single statement,
// so concurrent selections for the same unit are last-writer-wins.
func (r *PostgresRepository) Upsert(ctx context.Context, k *Key) error {
	query := `
		INSERT INTO access_keys (login, company_id, unit_id, group_id, token, issued_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (login, unit_id) DO UPDATE
		SET token = EXCLUDED.token,
		    company_id = EXCLUDED.company_id,
		    group_id = EXCLUDED.group_id,
		    issued_at = NOW()
		RETURNING issued_at`

	err := r.pool.QueryRow(ctx, query,
		k.Login, k.CompanyID, k.UnitID, k.GroupID, k.Token,
	).Scan(&k.IssuedAt)
	if err != nil {
		return fmt.Errorf("upserting access key: %w", err)
	}

	return nil
}

// DeleteByToken removes the ledger row matching login and token.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, login, token string) error {
	query := `DELETE FROM access_keys WHERE login = $1 AND token = $2`

	result, err := r.pool.Exec(ctx, query, login, token)
	if err != nil {
		return fmt.Errorf("deleting access key: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrKeyNotFound
	}

	return nil
}

// GetByLoginUnit retrieves the current key for a (login, unit) pair.
func (r *PostgresRepository) GetByLoginUnit(ctx context.Context, login string, unitID int64) (*Key, error) {
	query := `
		SELECT login, company_id, unit_id, group_id, token, issued_at
		FROM access_keys
		WHERE login = $1 AND unit_id = $2`

	var k Key
	err := r.pool.QueryRow(ctx, query, login, unitID).Scan(
		&k.Login, &k.CompanyID, &k.UnitID, &k.GroupID, &k.Token, &k.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("querying access key: %w", err)
	}

	return &k, nil
}
