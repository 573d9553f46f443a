package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/RicardoInfonetGyn/bastos/internal/accesskey"
	"github.com/RicardoInfonetGyn/bastos/internal/audit"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
)

// ErrInvalidCredentials is returned when no user matches the login and
// password digest.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountInactive is returned when the credentials match but the
// user is deactivated.
var ErrAccountInactive = errors.New("account inactive")

// ErrNoCompanyAccess is returned when a user has no active company
// membership; such a user cannot complete authentication at all.
var ErrNoCompanyAccess = errors.New("no company access")

// ErrCompanyAccessDenied is returned when a selection names a company
// the login has no active membership for.
var ErrCompanyAccessDenied = errors.New("company access denied")

// Service implements the login, company/unit selection and logout flows.
type Service struct {
	users      Repository
	companies  company.Repository
	keys       accesskey.Repository
	issuer     *TokenIssuer
	activity   *audit.Logger
	extensions []ProfileExtension
}

// NewService creates a new auth Service.
func NewService(users Repository, companies company.Repository, keys accesskey.Repository, issuer *TokenIssuer, activity *audit.Logger) *Service {
	return &Service{
		users:     users,
		companies: companies,
		keys:      keys,
		issuer:    issuer,
		activity:  activity,
	}
}

// RegisterExtension adds a profile extension consulted at login.
func (s *Service) RegisterExtension(ext ProfileExtension) {
	s.extensions = append(s.extensions, ext)
}

// Verifier exposes stateless token verification for the session
// middleware.
func (s *Service) Verifier() *TokenIssuer {
	return s.issuer
}

// Authenticate verifies credentials and resolves everything the
// authenticated identity needs to operate: accessible companies with
// their units, the aggregated permission matrix, the supplemental
// profile fields and an identity token.
func (s *Service) Authenticate(ctx context.Context, login, password, locale string) (*LoginResult, error) {
	digest := PasswordDigest(password)

	user, err := s.users.GetByCredentials(ctx, login, digest)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.activity.Record(audit.EventLoginFail, fmt.Sprintf("login failed for user: %s", login), "")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verifying credentials: %w", err)
	}

	if !user.Active {
		s.activity.Record(audit.EventLoginFail, fmt.Sprintf("inactive account rejected: %s", login), "")
		return nil, ErrAccountInactive
	}

	companies, err := s.companies.ListForLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("listing accessible companies: %w", err)
	}
	if len(companies) == 0 {
		s.activity.Record(audit.EventLoginFail, fmt.Sprintf("user without company access: %s", login), "")
		return nil, ErrNoCompanyAccess
	}

	withUnits, err := s.attachUnits(ctx, companies)
	if err != nil {
		return nil, err
	}

	permissions, err := s.EffectivePermissions(ctx, login)
	if err != nil {
		return nil, err
	}

	profile, err := s.buildProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.IssueIdentity(user.Login, user.GroupID)
	if err != nil {
		return nil, fmt.Errorf("issuing identity token: %w", err)
	}

	if locale == "" {
		locale = user.Locale
	}
	if locale != "" {
		if err := s.users.UpdateLocale(ctx, login, locale); err != nil {
			slog.Warn("failed to persist user locale", "login", login, "error", err)
		}
	}

	s.activity.Record(audit.EventLoginSuccess, fmt.Sprintf("login successful for user: %s", login), login)

	return &LoginResult{
		Token:       token,
		User:        *profile,
		Permissions: permissions,
		Companies:   withUnits,
		Locale:      locale,
	}, nil
}

// SelectCompanyUnit narrows an authenticated session to one company and
// unit: it validates membership and containment, re-resolves the group,
// issues the scoped token and upserts the access key ledger row for
// (login, unit).
func (s *Service) SelectCompanyUnit(ctx context.Context, login string, companyID, unitID int64) (*SelectionResult, error) {
	member, err := s.companies.HasMembership(ctx, login, companyID)
	if err != nil {
		return nil, fmt.Errorf("checking company membership: %w", err)
	}
	if !member {
		s.activity.Record(audit.EventLoginFail, fmt.Sprintf("user %s denied access to company %d", login, companyID), login)
		return nil, ErrCompanyAccessDenied
	}

	unit, err := s.companies.GetActiveUnit(ctx, unitID, companyID)
	if err != nil {
		if errors.Is(err, company.ErrUnitNotFound) {
			s.activity.Record(audit.EventLoginFail, fmt.Sprintf("user %s selected unknown unit %d in company %d", login, unitID, companyID), login)
		}
		return nil, err
	}

	comp, err := s.companies.GetActiveCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	groupID, err := s.users.PrimaryGroupID(ctx, login)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.IssueScoped(login, groupID, companyID, unitID)
	if err != nil {
		return nil, fmt.Errorf("issuing scoped token: %w", err)
	}

	key := &accesskey.Key{
		Login:     login,
		CompanyID: companyID,
		UnitID:    unitID,
		GroupID:   groupID,
		Token:     token,
	}
	if err := s.keys.Upsert(ctx, key); err != nil {
		return nil, fmt.Errorf("recording access key: %w", err)
	}

	s.activity.Record(audit.EventCompanyUnitSelected,
		fmt.Sprintf("user %s selected company %d and unit %d", login, companyID, unitID), login)

	return &SelectionResult{
		Token:           token,
		SelectedCompany: Ref{ID: comp.ID, Name: comp.Name},
		SelectedUnit:    Ref{ID: unit.ID, Name: unit.Name},
	}, nil
}

// Logout deletes the ledger row matching login and the exact token
// string. Verification stays stateless, so the bearer token itself
// remains valid until expiry; only the bookkeeping record is removed.
func (s *Service) Logout(ctx context.Context, login, token string) error {
	if err := s.keys.DeleteByToken(ctx, login, token); err != nil {
		if !errors.Is(err, accesskey.ErrKeyNotFound) {
			return fmt.Errorf("deleting access key: %w", err)
		}
	}

	s.activity.Record(audit.EventLogout, fmt.Sprintf("user logged out: %s", login), login)
	return nil
}

// EffectivePermissions ORs the six capabilities across every grant for
// every group the login belongs to. Applications with no grant row for
// any of the user's groups are absent from the result.
func (s *Service) EffectivePermissions(ctx context.Context, login string) (map[string]PermissionSet, error) {
	grants, err := s.users.GrantsForLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("loading permission grants: %w", err)
	}

	permissions := make(map[string]PermissionSet, len(grants))
	for _, g := range grants {
		p := permissions[g.AppName]
		p.Access = p.Access || g.Access
		p.Insert = p.Insert || g.Insert
		p.Delete = p.Delete || g.Delete
		p.Update = p.Update || g.Update
		p.Export = p.Export || g.Export
		p.Print = p.Print || g.Print
		permissions[g.AppName] = p
	}

	return permissions, nil
}

func (s *Service) attachUnits(ctx context.Context, companies []company.Company) ([]CompanyWithUnits, error) {
	result := make([]CompanyWithUnits, 0, len(companies))
	for _, c := range companies {
		units, err := s.companies.UnitsForCompany(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("listing units for company %d: %w", c.ID, err)
		}

		refs := make([]Ref, 0, len(units))
		for _, u := range units {
			refs = append(refs, Ref{ID: u.ID, Name: u.Name})
		}

		result = append(result, CompanyWithUnits{ID: c.ID, Name: c.Name, Units: refs})
	}

	return result, nil
}

func (s *Service) buildProfile(ctx context.Context, user *User) (*Profile, error) {
	profile := &Profile{
		Login:     user.Login,
		Name:      user.Name,
		Email:     user.Email,
		Admin:     user.Admin,
		GroupID:   user.GroupID,
		GroupName: user.GroupName,
		Picture:   user.Picture,
	}

	for _, ext := range s.extensions {
		if !ext.AppliesTo(user.GroupID) {
			continue
		}
		if err := ext.Apply(ctx, user.Login, profile); err != nil {
			return nil, fmt.Errorf("applying profile extension: %w", err)
		}
	}

	return profile, nil
}
