package validation

import "strings"

// RegisterClientRequest mirrors the fields needed for client validation.
type RegisterClientRequest struct {
	FullName  string
	Phone     string
	CompanyID int64
	Login     string
}

// ValidateRegisterClientRequest validates the fields of a client
// registration request.
func ValidateRegisterClientRequest(req RegisterClientRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.FullName) == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "fullName is required"})
	}
	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "phone is required"})
	}
	if req.CompanyID <= 0 {
		errs = append(errs, FieldError{Field: "companyId", Message: "companyId must be a positive integer"})
	}
	if strings.TrimSpace(req.Login) == "" {
		errs = append(errs, FieldError{Field: "login", Message: "login is required"})
	}

	return errs
}
