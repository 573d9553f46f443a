package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateLoginRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       LoginRequest
		wantField []string
	}{
		{
			name: "valid",
			req:  LoginRequest{Login: "alice", Password: "pw1234", Locale: "pt-BR"},
		},
		{
			name: "valid without locale",
			req:  LoginRequest{Login: "alice", Password: "pw1234"},
		},
		{
			name:      "missing login",
			req:       LoginRequest{Password: "pw1234"},
			wantField: []string{"login"},
		},
		{
			name:      "login too short",
			req:       LoginRequest{Login: "ab", Password: "pw1234"},
			wantField: []string{"login"},
		},
		{
			name:      "login with symbols",
			req:       LoginRequest{Login: "alice!", Password: "pw1234"},
			wantField: []string{"login"},
		},
		{
			name:      "missing password",
			req:       LoginRequest{Login: "alice"},
			wantField: []string{"password"},
		},
		{
			name:      "password too short",
			req:       LoginRequest{Login: "alice", Password: "abc"},
			wantField: []string{"password"},
		},
		{
			name:      "unsupported locale",
			req:       LoginRequest{Login: "alice", Password: "pw1234", Locale: "de-DE"},
			wantField: []string{"locale"},
		},
		{
			name:      "everything wrong",
			req:       LoginRequest{Locale: "xx"},
			wantField: []string{"login", "password", "locale"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLoginRequest(tt.req)
			assert.ElementsMatch(t, tt.wantField, fields(errs))
		})
	}
}

func TestValidateSelectCompanyUnitRequest(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ValidateSelectCompanyUnitRequest(SelectCompanyUnitRequest{CompanyID: 10, UnitID: 100}))

	errs := ValidateSelectCompanyUnitRequest(SelectCompanyUnitRequest{CompanyID: 0, UnitID: -1})
	assert.ElementsMatch(t, []string{"companyId", "unitId"}, fields(errs))
}
