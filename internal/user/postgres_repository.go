package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// List returns one page of active users matching the filter.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Summary, int, error) {
	where := `WHERE u.active = 'Y'`
	args := []any{}

	if f.CompanyID != nil {
		args = append(args, *f.CompanyID)
		where += fmt.Sprintf(" AND uc.company_id = $%d", len(args))
	}
	if f.UnitID != nil {
		args = append(args, *f.UnitID)
		where += fmt.Sprintf(" AND u.unit_id = $%d", len(args))
	}
	if f.Login != "" {
		args = append(args, "%"+escapeLike(f.Login)+"%")
		where += fmt.Sprintf(" AND u.login LIKE $%d", len(args))
	}

	countQuery := `
		SELECT COUNT(DISTINCT u.login)
		FROM users u
		LEFT JOIN user_companies uc ON u.login = uc.login
		` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	query := fmt.Sprintf(`
		SELECT u.login, u.name, u.email, u.phone, u.picture, u.profile,
		       u.level, b.id, b.description, u.city, u.position,
		       STRING_AGG(DISTINCT g.description, ','),
		       STRING_AGG(DISTINCT c.description, ',')
		FROM users u
		LEFT JOIN user_groups ug ON u.login = ug.login
		LEFT JOIN groups g ON ug.group_id = g.id
		LEFT JOIN user_companies uc ON u.login = uc.login
		LEFT JOIN companies c ON uc.company_id = c.id
		LEFT JOIN branches b ON u.unit_id = b.id
		%s
		GROUP BY u.login, u.name, u.email, u.phone, u.picture, u.profile,
		         u.level, b.id, b.description, u.city, u.position
		ORDER BY u.name ASC
		LIMIT $%d OFFSET $%d`, where, limitArg, offsetArg)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []Summary
	for rows.Next() {
		var s Summary
		err := rows.Scan(
			&s.Login, &s.Name, &s.Email, &s.Phone, &s.Picture, &s.Profile,
			&s.Level, &s.UnitID, &s.UnitName, &s.City, &s.Position,
			&s.Groups, &s.Companies,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []Summary{}
	}

	return users, total, nil
}

// escapeLike neutralizes LIKE metacharacters so a filter value matches
// literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetByLogin retrieves a user with memberships attached.
func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*Detail, error) {
	query := `
		SELECT login, name, email, phone, picture, profile, level,
		       unit_id, city, position, active = 'Y'
		FROM users
		WHERE login = $1`

	var d Detail
	err := r.pool.QueryRow(ctx, query, login).Scan(
		&d.Login, &d.Name, &d.Email, &d.Phone, &d.Picture, &d.Profile,
		&d.Level, &d.UnitID, &d.City, &d.Position, &d.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	groups, err := r.groupsForLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	d.Groups = groups

	companies, err := r.companiesForLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	d.Companies = companies

	return &d, nil
}

// Create inserts the user row and its membership rows.
func (r *PostgresRepository) Create(ctx context.Context, u *NewUser) error {
	query := `
		INSERT INTO users (login, password_digest, name, email, phone, picture,
		                   profile, level, unit_id, city, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'Y')`

	_, err := r.pool.Exec(ctx, query,
		u.Login, u.Digest, u.Name, u.Email, u.Phone, u.Picture,
		u.Profile, u.Level, u.UnitID, u.City, u.Position,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateLogin
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	for _, groupID := range u.Groups {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO user_groups (login, group_id) VALUES ($1, $2)`,
			u.Login, groupID,
		)
		if err != nil {
			return fmt.Errorf("inserting group membership: %w", err)
		}
	}

	for _, companyID := range u.Companies {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO user_companies (login, company_id) VALUES ($1, $2)`,
			u.Login, companyID,
		)
		if err != nil {
			return fmt.Errorf("inserting company membership: %w", err)
		}
	}

	return nil
}

// Update applies the changes inside one transaction. A login rename
// reaches the membership and ledger rows through their ON UPDATE
// CASCADE foreign keys.
func (r *PostgresRepository) Update(ctx context.Context, login string, upd *Update) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`, login).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking user existence: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	if upd.Login != login {
		var taken bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE login = $1 AND login <> $2)`,
			upd.Login, login,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("checking login availability: %w", err)
		}
		if taken {
			return ErrDuplicateLogin
		}
	}

	query := `
		UPDATE users
		SET login = $1, name = $2, email = $3, profile = $4, level = $5,
		    unit_id = $6, city = $7, position = $8`
	args := []any{
		upd.Login, upd.Name, upd.Email, upd.Profile, upd.Level,
		upd.UnitID, upd.City, upd.Position,
	}

	if upd.Phone != "" {
		args = append(args, upd.Phone)
		query += fmt.Sprintf(", phone = $%d", len(args))
	}
	if upd.Digest != "" {
		args = append(args, upd.Digest)
		query += fmt.Sprintf(", password_digest = $%d", len(args))
	}
	if upd.Picture != nil {
		args = append(args, *upd.Picture)
		query += fmt.Sprintf(", picture = $%d", len(args))
	}

	args = append(args, login)
	query += fmt.Sprintf(" WHERE login = $%d", len(args))

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	// The users UPDATE above already renamed the membership and ledger
	// rows through the ON UPDATE CASCADE foreign keys, so replacement
	// targets the new login.
	if upd.Groups != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM user_groups WHERE login = $1`, upd.Login); err != nil {
			return fmt.Errorf("clearing group memberships: %w", err)
		}
		for _, groupID := range upd.Groups {
			_, err := tx.Exec(ctx,
				`INSERT INTO user_groups (login, group_id) VALUES ($1, $2)`,
				upd.Login, groupID,
			)
			if err != nil {
				return fmt.Errorf("inserting group membership: %w", err)
			}
		}
	}

	if upd.Companies != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM user_companies WHERE login = $1`, upd.Login); err != nil {
			return fmt.Errorf("clearing company memberships: %w", err)
		}
		for _, companyID := range upd.Companies {
			_, err := tx.Exec(ctx,
				`INSERT INTO user_companies (login, company_id) VALUES ($1, $2)`,
				upd.Login, companyID,
			)
			if err != nil {
				return fmt.Errorf("inserting company membership: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing user update: %w", err)
	}

	return nil
}

// Deactivate clears the active flag; the row is kept.
func (r *PostgresRepository) Deactivate(ctx context.Context, login string) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET active = 'N' WHERE login = $1`, login)
	if err != nil {
		return fmt.Errorf("deactivating user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListGroups returns every group ordered by id.
func (r *PostgresRepository) ListGroups(ctx context.Context) ([]GroupRef, error) {
	query := `
		SELECT id, description
		FROM groups
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupRef
	for rows.Next() {
		var g GroupRef
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group rows: %w", err)
	}

	if groups == nil {
		groups = []GroupRef{}
	}

	return groups, nil
}

func (r *PostgresRepository) groupsForLogin(ctx context.Context, login string) ([]GroupRef, error) {
	query := `
		SELECT g.id, g.description
		FROM groups g
		INNER JOIN user_groups ug ON g.id = ug.group_id
		WHERE ug.login = $1
		ORDER BY g.id ASC`

	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("listing user groups: %w", err)
	}
	defer rows.Close()

	var groups []GroupRef
	for rows.Next() {
		var g GroupRef
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating group rows: %w", err)
	}

	if groups == nil {
		groups = []GroupRef{}
	}

	return groups, nil
}

func (r *PostgresRepository) companiesForLogin(ctx context.Context, login string) ([]CompanyRef, error) {
	query := `
		SELECT c.id, c.description
		FROM companies c
		INNER JOIN user_companies uc ON c.id = uc.company_id
		WHERE uc.login = $1
		ORDER BY c.id ASC`

	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, fmt.Errorf("listing user companies: %w", err)
	}
	defer rows.Close()

	var companies []CompanyRef
	for rows.Next() {
		var c CompanyRef
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning company row: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	if companies == nil {
		companies = []CompanyRef{}
	}

	return companies, nil
}
