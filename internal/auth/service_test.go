package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicardoInfonetGyn/bastos/internal/accesskey"
	"github.com/RicardoInfonetGyn/bastos/internal/audit"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
)

// --- Mock user repository ---

type mockUserRepo struct {
	getByCredentialsFn func(ctx context.Context, login, digest string) (*auth.User, error)
	primaryGroupIDFn   func(ctx context.Context, login string) (int64, error)
	grantsForLoginFn   func(ctx context.Context, login string) ([]auth.PermissionGrant, error)
	updateLocaleFn     func(ctx context.Context, login, locale string) error
	practitionerIDFn   func(ctx context.Context, login string) (*int64, error)
	studentIDFn        func(ctx context.Context, login string) (string, error)
}

func (m *mockUserRepo) GetByCredentials(ctx context.Context, login, digest string) (*auth.User, error) {
	if m.getByCredentialsFn != nil {
		return m.getByCredentialsFn(ctx, login, digest)
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepo) PrimaryGroupID(ctx context.Context, login string) (int64, error) {
	if m.primaryGroupIDFn != nil {
		return m.primaryGroupIDFn(ctx, login)
	}
	return 1, nil
}

func (m *mockUserRepo) GrantsForLogin(ctx context.Context, login string) ([]auth.PermissionGrant, error) {
	if m.grantsForLoginFn != nil {
		return m.grantsForLoginFn(ctx, login)
	}
	return []auth.PermissionGrant{}, nil
}

func (m *mockUserRepo) UpdateLocale(ctx context.Context, login, locale string) error {
	if m.updateLocaleFn != nil {
		return m.updateLocaleFn(ctx, login, locale)
	}
	return nil
}

func (m *mockUserRepo) PractitionerID(ctx context.Context, login string) (*int64, error) {
	if m.practitionerIDFn != nil {
		return m.practitionerIDFn(ctx, login)
	}
	return nil, nil
}

func (m *mockUserRepo) StudentID(ctx context.Context, login string) (string, error) {
	if m.studentIDFn != nil {
		return m.studentIDFn(ctx, login)
	}
	return "", nil
}

// --- Mock company repository ---

type mockCompanyRepo struct {
	listForLoginFn     func(ctx context.Context, login string) ([]company.Company, error)
	unitsForCompanyFn  func(ctx context.Context, companyID int64) ([]company.Unit, error)
	hasMembershipFn    func(ctx context.Context, login string, companyID int64) (bool, error)
	getActiveCompanyFn func(ctx context.Context, id int64) (*company.Company, error)
	getActiveUnitFn    func(ctx context.Context, unitID, companyID int64) (*company.Unit, error)
}

func (m *mockCompanyRepo) ListForLogin(ctx context.Context, login string) ([]company.Company, error) {
	if m.listForLoginFn != nil {
		return m.listForLoginFn(ctx, login)
	}
	return []company.Company{}, nil
}

func (m *mockCompanyRepo) UnitsForCompany(ctx context.Context, companyID int64) ([]company.Unit, error) {
	if m.unitsForCompanyFn != nil {
		return m.unitsForCompanyFn(ctx, companyID)
	}
	return []company.Unit{}, nil
}

func (m *mockCompanyRepo) HasMembership(ctx context.Context, login string, companyID int64) (bool, error) {
	if m.hasMembershipFn != nil {
		return m.hasMembershipFn(ctx, login, companyID)
	}
	return false, nil
}

func (m *mockCompanyRepo) GetActiveCompany(ctx context.Context, id int64) (*company.Company, error) {
	if m.getActiveCompanyFn != nil {
		return m.getActiveCompanyFn(ctx, id)
	}
	return nil, company.ErrCompanyNotFound
}

func (m *mockCompanyRepo) GetActiveUnit(ctx context.Context, unitID, companyID int64) (*company.Unit, error) {
	if m.getActiveUnitFn != nil {
		return m.getActiveUnitFn(ctx, unitID, companyID)
	}
	return nil, company.ErrUnitNotFound
}

func (m *mockCompanyRepo) ListAll(ctx context.Context) ([]company.Company, error) {
	return []company.Company{}, nil
}

// --- In-memory access key ledger ---

type memoryKeyRepo struct {
	rows map[string]*accesskey.Key
}

func newMemoryKeyRepo() *memoryKeyRepo {
	return &memoryKeyRepo{rows: make(map[string]*accesskey.Key)}
}

func ledgerKey(login string, unitID int64) string {
	return fmt.Sprintf("%s|%d", login, unitID)
}

func (m *memoryKeyRepo) Upsert(_ context.Context, k *accesskey.Key) error {
	k.IssuedAt = time.Now().UTC()
	cp := *k
	m.rows[ledgerKey(k.Login, k.UnitID)] = &cp
	return nil
}

func (m *memoryKeyRepo) DeleteByToken(_ context.Context, login, token string) error {
	for key, row := range m.rows {
		if row.Login == login && row.Token == token {
			delete(m.rows, key)
			return nil
		}
	}
	return accesskey.ErrKeyNotFound
}

func (m *memoryKeyRepo) GetByLoginUnit(_ context.Context, login string, unitID int64) (*accesskey.Key, error) {
	if row, ok := m.rows[ledgerKey(login, unitID)]; ok {
		return row, nil
	}
	return nil, accesskey.ErrKeyNotFound
}

// --- Fixtures ---

func activeUser(login string, groupID int64) *auth.User {
	return &auth.User{
		Login:     login,
		Name:      "Alice Andrade",
		Email:     login + "@example.com",
		Active:    true,
		Locale:    "pt-BR",
		GroupID:   groupID,
		GroupName: "Administrators",
	}
}

func credentialMatcher(u *auth.User, password string) func(ctx context.Context, login, digest string) (*auth.User, error) {
	want := auth.PasswordDigest(password)
	return func(_ context.Context, login, digest string) (*auth.User, error) {
		if login == u.Login && digest == want {
			cp := *u
			return &cp, nil
		}
		return nil, auth.ErrUserNotFound
	}
}

func singleCompanyRepo() *mockCompanyRepo {
	acme := company.Company{ID: 10, Name: "Acme"}
	downtown := company.Unit{ID: 100, CompanyID: 10, Name: "Downtown"}

	return &mockCompanyRepo{
		listForLoginFn: func(_ context.Context, login string) ([]company.Company, error) {
			return []company.Company{acme}, nil
		},
		unitsForCompanyFn: func(_ context.Context, companyID int64) ([]company.Unit, error) {
			if companyID == acme.ID {
				return []company.Unit{downtown}, nil
			}
			return []company.Unit{}, nil
		},
		hasMembershipFn: func(_ context.Context, _ string, companyID int64) (bool, error) {
			return companyID == acme.ID, nil
		},
		getActiveCompanyFn: func(_ context.Context, id int64) (*company.Company, error) {
			if id == acme.ID {
				cp := acme
				return &cp, nil
			}
			return nil, company.ErrCompanyNotFound
		},
		getActiveUnitFn: func(_ context.Context, unitID, companyID int64) (*company.Unit, error) {
			if unitID == downtown.ID && companyID == acme.ID {
				cp := downtown
				return &cp, nil
			}
			return nil, company.ErrUnitNotFound
		},
	}
}

func newService(t *testing.T, users auth.Repository, companies company.Repository, keys accesskey.Repository) *auth.Service {
	t.Helper()

	activity, err := audit.NewLogger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(activity.Close)

	issuer, err := auth.NewTokenIssuer(testSecret, time.Hour)
	require.NoError(t, err)

	return auth.NewService(users, companies, keys, issuer, activity)
}

// --- Authenticate ---

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("alice", 1), "right-password"),
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	_, err := svc.Authenticate(context.Background(), "alice", "wrong-password", "pt-BR")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "mallory", "right-password", "pt-BR")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_AccountInactive(t *testing.T) {
	t.Parallel()

	user := activeUser("carol", 1)
	user.Active = false
	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(user, "pw1234"),
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	_, err := svc.Authenticate(context.Background(), "carol", "pw1234", "pt-BR")
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}

func TestAuthenticate_NoCompanyAccess(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("bob", 1), "pw1234"),
	}
	companies := &mockCompanyRepo{
		listForLoginFn: func(_ context.Context, _ string) ([]company.Company, error) {
			return []company.Company{}, nil
		},
	}
	svc := newService(t, users, companies, newMemoryKeyRepo())

	_, err := svc.Authenticate(context.Background(), "bob", "pw1234", "pt-BR")
	assert.ErrorIs(t, err, auth.ErrNoCompanyAccess)
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	var savedLocale string
	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("alice", 1), "pw1234"),
		updateLocaleFn: func(_ context.Context, _, locale string) error {
			savedLocale = locale
			return nil
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	result, err := svc.Authenticate(context.Background(), "alice", "pw1234", "en-US")
	require.NoError(t, err)

	assert.Equal(t, "alice", result.User.Login)
	assert.Equal(t, "Administrators", result.User.GroupName)
	assert.Equal(t, "en-US", result.Locale)
	assert.Equal(t, "en-US", savedLocale)

	require.Len(t, result.Companies, 1)
	assert.Equal(t, int64(10), result.Companies[0].ID)
	require.Len(t, result.Companies[0].Units, 1)
	assert.Equal(t, int64(100), result.Companies[0].Units[0].ID)

	claims, err := svc.Verifier().Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Login)
	assert.Equal(t, int64(1), claims.GroupID)
	assert.False(t, claims.Scoped())
}

func TestAuthenticate_CompanyWithoutUnits(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("alice", 1), "pw1234"),
	}
	companies := &mockCompanyRepo{
		listForLoginFn: func(_ context.Context, _ string) ([]company.Company, error) {
			return []company.Company{{ID: 20, Name: "Hollow"}}, nil
		},
		unitsForCompanyFn: func(_ context.Context, _ int64) ([]company.Unit, error) {
			return []company.Unit{}, nil
		},
	}
	svc := newService(t, users, companies, newMemoryKeyRepo())

	result, err := svc.Authenticate(context.Background(), "alice", "pw1234", "pt-BR")
	require.NoError(t, err)

	require.Len(t, result.Companies, 1)
	assert.Empty(t, result.Companies[0].Units)
}

func TestAuthenticate_ProfileExtensions(t *testing.T) {
	t.Parallel()

	practitioner := int64(77)
	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("drwho", 2), "pw1234"),
		practitionerIDFn: func(_ context.Context, _ string) (*int64, error) {
			return &practitioner, nil
		},
		studentIDFn: func(_ context.Context, _ string) (string, error) {
			return "STU-9", nil
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())
	svc.RegisterExtension(auth.NewPractitionerExtension(users, 2))
	svc.RegisterExtension(auth.NewStudentExtension(users))

	result, err := svc.Authenticate(context.Background(), "drwho", "pw1234", "pt-BR")
	require.NoError(t, err)

	require.NotNil(t, result.User.PractitionerID)
	assert.Equal(t, practitioner, *result.User.PractitionerID)
	assert.Equal(t, "STU-9", result.User.StudentID)
}

func TestAuthenticate_PractitionerExtensionSkippedForOtherGroups(t *testing.T) {
	t.Parallel()

	practitionerCalled := false
	users := &mockUserRepo{
		getByCredentialsFn: credentialMatcher(activeUser("alice", 1), "pw1234"),
		practitionerIDFn: func(_ context.Context, _ string) (*int64, error) {
			practitionerCalled = true
			return nil, nil
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())
	svc.RegisterExtension(auth.NewPractitionerExtension(users, 2))
	svc.RegisterExtension(auth.NewStudentExtension(users))

	result, err := svc.Authenticate(context.Background(), "alice", "pw1234", "pt-BR")
	require.NoError(t, err)

	assert.False(t, practitionerCalled)
	assert.Nil(t, result.User.PractitionerID)
	assert.Equal(t, "", result.User.StudentID)
}

// --- Permission aggregation ---

func TestEffectivePermissions_ORAcrossGroups(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		grantsForLoginFn: func(_ context.Context, _ string) ([]auth.PermissionGrant, error) {
			return []auth.PermissionGrant{
				{GroupID: 1, AppName: "X", PermissionSet: auth.PermissionSet{Access: true, Export: false}},
				{GroupID: 2, AppName: "X", PermissionSet: auth.PermissionSet{Access: false, Export: true}},
			}, nil
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	permissions, err := svc.EffectivePermissions(context.Background(), "alice")
	require.NoError(t, err)

	require.Contains(t, permissions, "X")
	assert.True(t, permissions["X"].Access)
	assert.True(t, permissions["X"].Export)
	assert.False(t, permissions["X"].Insert)
}

func TestEffectivePermissions_UngrantedAppsAbsent(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		grantsForLoginFn: func(_ context.Context, _ string) ([]auth.PermissionGrant, error) {
			return []auth.PermissionGrant{
				{GroupID: 1, AppName: "reports", PermissionSet: auth.PermissionSet{Access: true}},
			}, nil
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	permissions, err := svc.EffectivePermissions(context.Background(), "alice")
	require.NoError(t, err)

	assert.Len(t, permissions, 1)
	assert.NotContains(t, permissions, "billing")
}

// --- SelectCompanyUnit ---

func TestSelectCompanyUnit_Success(t *testing.T) {
	t.Parallel()

	keys := newMemoryKeyRepo()
	users := &mockUserRepo{
		primaryGroupIDFn: func(_ context.Context, _ string) (int64, error) { return 1, nil },
	}
	svc := newService(t, users, singleCompanyRepo(), keys)

	result, err := svc.SelectCompanyUnit(context.Background(), "alice", 10, 100)
	require.NoError(t, err)

	assert.Equal(t, "Acme", result.SelectedCompany.Name)
	assert.Equal(t, "Downtown", result.SelectedUnit.Name)

	claims, err := svc.Verifier().Verify(result.Token)
	require.NoError(t, err)
	require.True(t, claims.Scoped())
	assert.Equal(t, int64(10), *claims.CompanyID)
	assert.Equal(t, int64(100), *claims.UnitID)

	row, err := keys.GetByLoginUnit(context.Background(), "alice", 100)
	require.NoError(t, err)
	assert.Equal(t, result.Token, row.Token)
	assert.Equal(t, int64(10), row.CompanyID)
}

func TestSelectCompanyUnit_CompanyAccessDenied(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockUserRepo{}, singleCompanyRepo(), newMemoryKeyRepo())

	_, err := svc.SelectCompanyUnit(context.Background(), "alice", 99, 100)
	assert.ErrorIs(t, err, auth.ErrCompanyAccessDenied)
}

func TestSelectCompanyUnit_UnitNotFound(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockUserRepo{}, singleCompanyRepo(), newMemoryKeyRepo())

	_, err := svc.SelectCompanyUnit(context.Background(), "alice", 10, 999)
	assert.ErrorIs(t, err, company.ErrUnitNotFound)
}

func TestSelectCompanyUnit_UserNotFound(t *testing.T) {
	t.Parallel()

	users := &mockUserRepo{
		primaryGroupIDFn: func(_ context.Context, _ string) (int64, error) {
			return 0, auth.ErrUserNotFound
		},
	}
	svc := newService(t, users, singleCompanyRepo(), newMemoryKeyRepo())

	_, err := svc.SelectCompanyUnit(context.Background(), "ghost", 10, 100)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestSelectCompanyUnit_IdempotentLedger(t *testing.T) {
	t.Parallel()

	keys := newMemoryKeyRepo()
	users := &mockUserRepo{
		primaryGroupIDFn: func(_ context.Context, _ string) (int64, error) { return 1, nil },
	}
	svc := newService(t, users, singleCompanyRepo(), keys)

	first, err := svc.SelectCompanyUnit(context.Background(), "alice", 10, 100)
	require.NoError(t, err)
	second, err := svc.SelectCompanyUnit(context.Background(), "alice", 10, 100)
	require.NoError(t, err)

	// Both tokens verify, but the ledger keeps exactly one row for
	// (alice, 100), holding the latest token.
	_, err = svc.Verifier().Verify(first.Token)
	require.NoError(t, err)
	_, err = svc.Verifier().Verify(second.Token)
	require.NoError(t, err)

	assert.Len(t, keys.rows, 1)
	row, err := keys.GetByLoginUnit(context.Background(), "alice", 100)
	require.NoError(t, err)
	assert.Equal(t, second.Token, row.Token)
}

// --- Logout ---

func TestLogout_DeletesLedgerRow(t *testing.T) {
	t.Parallel()

	keys := newMemoryKeyRepo()
	users := &mockUserRepo{
		primaryGroupIDFn: func(_ context.Context, _ string) (int64, error) { return 1, nil },
	}
	svc := newService(t, users, singleCompanyRepo(), keys)

	result, err := svc.SelectCompanyUnit(context.Background(), "alice", 10, 100)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "alice", result.Token))
	assert.Empty(t, keys.rows)

	// The bearer token still verifies after logout: revocation is
	// bookkeeping only.
	_, err = svc.Verifier().Verify(result.Token)
	assert.NoError(t, err)
}

func TestLogout_MissingRowStillSucceeds(t *testing.T) {
	t.Parallel()

	svc := newService(t, &mockUserRepo{}, singleCompanyRepo(), newMemoryKeyRepo())

	err := svc.Logout(context.Background(), "alice", "unknown-token")
	assert.NoError(t, err)
}
