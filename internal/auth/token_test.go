package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoInfonetGyn/bastos/internal/auth"
)

const testSecret = "test-signing-secret"

func newIssuer(t *testing.T, ttl time.Duration) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer(testSecret, ttl)
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuer_RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := auth.NewTokenIssuer("", time.Hour)
	assert.Error(t, err)

	_, err = auth.NewTokenIssuer("secret", 0)
	assert.Error(t, err)
}

func TestIssueIdentity_RoundTrip(t *testing.T) {
	t.Parallel()
	issuer := newIssuer(t, time.Hour)

	token, err := issuer.IssueIdentity("alice", 3)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, int64(3), claims.GroupID)
	assert.Nil(t, claims.CompanyID)
	assert.Nil(t, claims.UnitID)
	assert.False(t, claims.Scoped())
}

func TestIssueScoped_RoundTrip(t *testing.T) {
	t.Parallel()
	issuer := newIssuer(t, time.Hour)

	token, err := issuer.IssueScoped("alice", 3, 10, 100)
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, int64(3), claims.GroupID)
	require.NotNil(t, claims.CompanyID)
	require.NotNil(t, claims.UnitID)
	assert.Equal(t, int64(10), *claims.CompanyID)
	assert.Equal(t, int64(100), *claims.UnitID)
	assert.True(t, claims.Scoped())
}

func TestVerify_ExpiredToken(t *testing.T) {
	t.Parallel()
	issuer := newIssuer(t, 10*time.Millisecond)

	token, err := issuer.IssueIdentity("alice", 3)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	issuer := newIssuer(t, time.Hour)

	other, err := auth.NewTokenIssuer("another-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.IssueIdentity("alice", 3)
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()
	issuer := newIssuer(t, time.Hour)

	_, err := issuer.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
