package i18n_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
)

type mockRepo struct {
	languagesFn    func(ctx context.Context) ([]i18n.Language, error)
	getByCodeFn    func(ctx context.Context, code string) (*i18n.Language, error)
	translationsFn func(ctx context.Context, languageID int64) (map[string]string, error)
	userLocaleFn   func(ctx context.Context, login string) (string, error)
}

func (m *mockRepo) Languages(ctx context.Context) ([]i18n.Language, error) {
	if m.languagesFn != nil {
		return m.languagesFn(ctx)
	}
	return []i18n.Language{}, nil
}

func (m *mockRepo) GetByCode(ctx context.Context, code string) (*i18n.Language, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, i18n.ErrLanguageNotFound
}

func (m *mockRepo) Translations(ctx context.Context, languageID int64) (map[string]string, error) {
	if m.translationsFn != nil {
		return m.translationsFn(ctx, languageID)
	}
	return map[string]string{}, nil
}

func (m *mockRepo) UserLocale(ctx context.Context, login string) (string, error) {
	if m.userLocaleFn != nil {
		return m.userLocaleFn(ctx, login)
	}
	return "", nil
}

func ptBR() *i18n.Language {
	return &i18n.Language{ID: 1, Code: "pt-BR", Name: "Português (Brasil)"}
}

func TestTranslationsForLogin_UserLocale(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		userLocaleFn: func(_ context.Context, _ string) (string, error) {
			return "en-US", nil
		},
		getByCodeFn: func(_ context.Context, code string) (*i18n.Language, error) {
			require.Equal(t, "en-US", code)
			return &i18n.Language{ID: 2, Code: "en-US", Name: "English (US)"}, nil
		},
		translationsFn: func(_ context.Context, languageID int64) (map[string]string, error) {
			require.Equal(t, int64(2), languageID)
			return map[string]string{"users.title": "Users"}, nil
		},
	}

	got, err := i18n.NewService(repo).TranslationsForLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Users", got["users.title"])
}

func TestTranslationsForLogin_DefaultLocaleFallback(t *testing.T) {
	t.Parallel()

	var requested string
	repo := &mockRepo{
		getByCodeFn: func(_ context.Context, code string) (*i18n.Language, error) {
			requested = code
			return ptBR(), nil
		},
	}

	_, err := i18n.NewService(repo).TranslationsForLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, i18n.DefaultLocale, requested)
}

func TestTranslationsForLogin_UnknownLocale(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		userLocaleFn: func(_ context.Context, _ string) (string, error) {
			return "xx-XX", nil
		},
	}

	_, err := i18n.NewService(repo).TranslationsForLogin(context.Background(), "alice")
	assert.ErrorIs(t, err, i18n.ErrLanguageNotFound)
}

func TestLabels_FallbacksOnMissingKeys(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		getByCodeFn: func(_ context.Context, _ string) (*i18n.Language, error) {
			return ptBR(), nil
		},
		translationsFn: func(_ context.Context, _ int64) (map[string]string, error) {
			return map[string]string{"users.title": "Usuários"}, nil
		},
	}

	labels := i18n.NewService(repo).Labels(context.Background(), "alice", map[string]string{
		"users.title":  "Users",
		"users.action": "Actions",
	})

	assert.Equal(t, "Usuários", labels["users.title"])
	assert.Equal(t, "Actions", labels["users.action"])
}

func TestLabels_LookupFailureYieldsFallbacks(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		userLocaleFn: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("connection refused")
		},
	}

	labels := i18n.NewService(repo).Labels(context.Background(), "alice", map[string]string{
		"users.title": "Users",
	})

	assert.Equal(t, map[string]string{"users.title": "Users"}, labels)
}
