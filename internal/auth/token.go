package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates the token failed signature or expiry checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by every bearer token. An identity
// token holds login and group only; a scoped token adds the company
// and unit chosen at selection time and supersedes the identity token
// for the rest of the session.
type Claims struct {
	Login     string `json:"login"`
	GroupID   int64  `json:"group_id"`
	CompanyID *int64 `json:"company_id,omitempty"`
	UnitID    *int64 `json:"unit_id,omitempty"`
	jwt.RegisteredClaims
}

// Scoped reports whether the claims carry a company/unit selection.
func (c *Claims) Scoped() bool {
	return c.CompanyID != nil && c.UnitID != nil
}

// TokenIssuer mints and verifies HS256 bearer tokens. The signing
// secret and expiry policy are fixed at construction; verification is
// stateless and never consults the database.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given secret and
// token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}, nil
}

// IssueIdentity signs a token carrying login and group, minted right
// after credential verification.
func (i *TokenIssuer) IssueIdentity(login string, groupID int64) (string, error) {
	return i.sign(Claims{Login: login, GroupID: groupID})
}

// IssueScoped signs a token carrying login, group, company and unit,
// minted after company/unit selection. Callers must discard the prior
// identity token.
func (i *TokenIssuer) IssueScoped(login string, groupID, companyID, unitID int64) (string, error) {
	return i.sign(Claims{
		Login:     login,
		GroupID:   groupID,
		CompanyID: &companyID,
		UnitID:    &unitID,
	})
}

func (i *TokenIssuer) sign(claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Login == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
