package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
)

const identityKey contextKey = "identity"

// TokenVerifier checks a bearer token's signature and expiry.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Auth is middleware that extracts the Authorization bearer token,
// verifies it and attaches the decoded claims to the request context.
// Verification is purely cryptographic; no database lookup happens on
// this path, so a logged-out token stays valid until it expires.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := BearerToken(r)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				response.Err(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", requestID)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from the Authorization header, or "".
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetIdentity retrieves the authenticated claims from the request context.
func GetIdentity(ctx context.Context) *auth.Claims {
	if c, ok := ctx.Value(identityKey).(*auth.Claims); ok {
		return c
	}
	return nil
}
