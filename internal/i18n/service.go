package i18n

import (
	"context"
	"fmt"
)

// Service resolves translations based on a user's stored locale.
type Service struct {
	repo Repository
}

// NewService creates a new i18n Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Languages returns the available languages.
func (s *Service) Languages(ctx context.Context) ([]Language, error) {
	return s.repo.Languages(ctx)
}

// TranslationsForLogin returns the key/value map for the user's locale,
// falling back to the default locale when the user has none set.
// Returns ErrLanguageNotFound when the stored locale has no language row.
func (s *Service) TranslationsForLogin(ctx context.Context, login string) (map[string]string, error) {
	locale, err := s.repo.UserLocale(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("resolving user locale: %w", err)
	}
	if locale == "" {
		locale = DefaultLocale
	}

	lang, err := s.repo.GetByCode(ctx, locale)
	if err != nil {
		return nil, err
	}

	return s.repo.Translations(ctx, lang.ID)
}

// Labels resolves a set of translation keys for the user, substituting
// the given fallback when a key has no translation. Lookup failures
// yield the fallbacks; label resolution never fails a request.
func (s *Service) Labels(ctx context.Context, login string, fallbacks map[string]string) map[string]string {
	labels := make(map[string]string, len(fallbacks))

	translations, err := s.TranslationsForLogin(ctx, login)
	if err != nil {
		translations = nil
	}

	for key, fallback := range fallbacks {
		if v, ok := translations[key]; ok {
			labels[key] = v
		} else {
			labels[key] = fallback
		}
	}

	return labels
}
