package i18n

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

// Languages returns all available languages ordered by name.
func (r *PostgresRepository) Languages(ctx context.Context) ([]Language, error) {
	query := `
		SELECT id, code, name
		FROM languages
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	defer rows.Close()

	var languages []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, fmt.Errorf("scanning language row: %w", err)
		}
		languages = append(languages, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating language rows: %w", err)
	}

	if languages == nil {
		languages = []Language{}
	}

	return languages, nil
}

// GetByCode retrieves a language by its code.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*Language, error) {
	query := `
		SELECT id, code, name
		FROM languages
		WHERE code = $1`

	var l Language
	err := r.pool.QueryRow(ctx, query, code).Scan(&l.ID, &l.Code, &l.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLanguageNotFound
		}
		return nil, fmt.Errorf("querying language: %w", err)
	}

	return &l, nil
}

// Translations returns the key/value map for a language.
func (r *PostgresRepository) Translations(ctx context.Context, languageID int64) (map[string]string, error) {
	query := `
		SELECT key, value
		FROM translations
		WHERE language_id = $1`

	rows, err := r.pool.Query(ctx, query, languageID)
	if err != nil {
		return nil, fmt.Errorf("listing translations: %w", err)
	}
	defer rows.Close()

	translations := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scanning translation row: %w", err)
		}
		translations[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating translation rows: %w", err)
	}

	return translations, nil
}

// UserLocale returns the locale stored on the user row, or empty when
// the user does not exist or has none set.
func (r *PostgresRepository) UserLocale(ctx context.Context, login string) (string, error) {
	query := `SELECT COALESCE(locale, '') FROM users WHERE login = $1`

	var locale string
	err := r.pool.QueryRow(ctx, query, login).Scan(&locale)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying user locale: %w", err)
	}

	return locale, nil
}
