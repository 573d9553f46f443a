package validation

import "strings"

var supportedLocales = map[string]bool{
	"pt-BR": true,
	"en-US": true,
	"es-ES": true,
	"fr-FR": true,
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Login    string
	Password string
	Locale   string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	login := strings.TrimSpace(req.Login)
	switch {
	case login == "":
		errs = append(errs, FieldError{Field: "login", Message: "login is required"})
	case len(login) < 3 || len(login) > 50:
		errs = append(errs, FieldError{Field: "login", Message: "login must be between 3 and 50 characters"})
	case !isAlphanumeric(login):
		errs = append(errs, FieldError{Field: "login", Message: "login must be alphanumeric"})
	}

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < 4 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 4 characters"})
	}

	if req.Locale != "" && !supportedLocales[req.Locale] {
		errs = append(errs, FieldError{Field: "locale", Message: "locale is not supported"})
	}

	return errs
}

// SelectCompanyUnitRequest mirrors the fields needed for selection validation.
type SelectCompanyUnitRequest struct {
	CompanyID int64
	UnitID    int64
}

// ValidateSelectCompanyUnitRequest validates the fields of a selection request.
func ValidateSelectCompanyUnitRequest(req SelectCompanyUnitRequest) []FieldError {
	var errs []FieldError

	if req.CompanyID <= 0 {
		errs = append(errs, FieldError{Field: "companyId", Message: "companyId must be a positive integer"})
	}
	if req.UnitID <= 0 {
		errs = append(errs, FieldError{Field: "unitId", Message: "unitId must be a positive integer"})
	}

	return errs
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
