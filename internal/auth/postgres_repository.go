package auth

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

// GetByCredentials matches login and digest in a single joined lookup.
// ORDER BY group_id keeps the result deterministic for users that
// belong to more than one group.
func (r *PostgresRepository) GetByCredentials(ctx context.Context, login, digest string) (*User, error) {
	query := `
		SELECT u.login, u.name, u.email, u.active = 'Y', u.admin = 'Y',
		       u.locale, u.picture, g.id, g.description
		FROM users u
		INNER JOIN user_groups ug ON u.login = ug.login
		INNER JOIN groups g ON g.id = ug.group_id
		WHERE u.login = $1 AND u.password_digest = $2
		ORDER BY g.id ASC
		LIMIT 1`

	var u User
	err := r.pool.QueryRow(ctx, query, login, digest).Scan(
		&u.Login, &u.Name, &u.Email, &u.Active, &u.Admin,
		&u.Locale, &u.Picture, &u.GroupID, &u.GroupName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user by credentials: %w", err)
	}

	return &u, nil
}

// PrimaryGroupID re-resolves the login's group id.
func (r *PostgresRepository) PrimaryGroupID(ctx context.Context, login string) (int64, error) {
	query := `
		SELECT group_id
		FROM user_groups
		WHERE login = $1
		ORDER BY group_id ASC
		LIMIT 1`

	var groupID int64
	err := r.pool.QueryRow(ctx, query, login).Scan(&groupID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("querying user group: %w", err)
	}

	return groupID, nil
}

// GrantsForLogin returns the permission rows for all of the login's groups.
func (r *PostgresRepository) GrantsForLogin(ctx context.Context, login string) ([]PermissionGrant, error) {
	query := `
		SELECT ga.group_id, ga.app_name,
		       ga.priv_access, ga.priv_insert, ga.priv_delete,
		       ga.priv_update, ga.priv_export, ga.priv_print
		FROM group_apps ga
		WHERE ga.group_id IN (
			SELECT group_id FROM user_groups WHERE login = $1
		)`

	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("listing permission grants: %w", err)
	}
	defer rows.Close()

	var grants []PermissionGrant
	for rows.Next() {
		var g PermissionGrant
		err := rows.Scan(
			&g.GroupID, &g.AppName,
			&g.Access, &g.Insert, &g.Delete,
			&g.Update, &g.Export, &g.Print,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning permission grant row: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating permission grant rows: %w", err)
	}

	if grants == nil {
		grants = []PermissionGrant{}
	}

	return grants, nil
}

// UpdateLocale persists the login locale on the user row.
func (r *PostgresRepository) UpdateLocale(ctx context.Context, login, locale string) error {
	query := `UPDATE users SET locale = $1 WHERE login = $2`

	if _, err := r.pool.Exec(ctx, query, locale, login); err != nil {
		return fmt.Errorf("updating user locale: %w", err)
	}

	return nil
}

// PractitionerID returns the practitioner id linked to the login, if any.
func (r *PostgresRepository) PractitionerID(ctx context.Context, login string) (*int64, error) {
	query := `SELECT practitioner_id FROM practitioners WHERE login = $1`

	var id int64
	err := r.pool.QueryRow(ctx, query, login).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying practitioner id: %w", err)
	}

	return &id, nil
}

// StudentID returns the student id linked to the login, or empty.
func (r *PostgresRepository) StudentID(ctx context.Context, login string) (string, error) {
	query := `SELECT student_id FROM students WHERE user_login = $1`

	var id string
	err := r.pool.QueryRow(ctx, query, login).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying student id: %w", err)
	}

	return id, nil
}
