package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
)

func newTestVerifier(t *testing.T, ttl time.Duration) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("middleware-test-secret", ttl)
	require.NoError(t, err)
	return issuer
}

func authedHandler(t *testing.T, verifier middleware.TokenVerifier, captured **auth.Claims) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = middleware.GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Auth(verifier)(inner)
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	var claims *auth.Claims
	handler := authedHandler(t, newTestVerifier(t, time.Hour), &claims)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
	assert.Nil(t, claims)
}

func TestAuth_MalformedHeader(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"Token abc", "Bearer", "abc.def.ghi"} {
		var claims *auth.Claims
		handler := authedHandler(t, newTestVerifier(t, time.Hour), &claims)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, claims, "header %q", header)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	var claims *auth.Claims
	handler := authedHandler(t, newTestVerifier(t, time.Hour), &claims)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
	assert.Nil(t, claims)
}

func TestAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	issuer := newTestVerifier(t, 10*time.Millisecond)
	token, err := issuer.IssueIdentity("alice", 1)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	var claims *auth.Claims
	handler := authedHandler(t, issuer, &claims)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, claims)
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	issuer := newTestVerifier(t, time.Hour)
	token, err := issuer.IssueScoped("alice", 1, 10, 100)
	require.NoError(t, err)

	var claims *auth.Claims
	handler := authedHandler(t, issuer, &claims)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Login)
	require.True(t, claims.Scoped())
	assert.Equal(t, int64(10), *claims.CompanyID)
	assert.Equal(t, int64(100), *claims.UnitID)
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", middleware.BearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", middleware.BearerToken(req))

	req.Header.Set("Authorization", "BEARER xyz")
	assert.Equal(t, "xyz", middleware.BearerToken(req))
}
