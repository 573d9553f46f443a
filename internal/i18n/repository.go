package i18n

import (
	"context"
	"errors"
)

// ErrLanguageNotFound is returned when no language row matches a code.
var ErrLanguageNotFound = errors.New("language not found")

// Repository provides read access to the languages and translations tables.
type Repository interface {
	// Languages returns all available languages ordered by name.
	Languages(ctx context.Context) ([]Language, error)
	// GetByCode retrieves a language by its code (e.g. "pt-BR").
	GetByCode(ctx context.Context, code string) (*Language, error)
	// Translations returns the key/value map for a language.
	Translations(ctx context.Context, languageID int64) (map[string]string, error)
	// UserLocale returns the locale stored on the user row, or empty.
	UserLocale(ctx context.Context, login string) (string, error)
}
