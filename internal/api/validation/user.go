package validation

import "strings"

// RegisterUserRequest mirrors the fields needed for registration validation.
type RegisterUserRequest struct {
	Login     string
	Name      string
	Password  string
	Email     string
	Phone     string
	Groups    []int64
	Companies []int64
}

// ValidateRegisterUserRequest validates the fields of a registration request.
func ValidateRegisterUserRequest(req RegisterUserRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Login) == "" {
		errs = append(errs, FieldError{Field: "login", Message: "login is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if strings.TrimSpace(req.Phone) == "" {
		errs = append(errs, FieldError{Field: "phone", Message: "phone is required"})
	}
	if len(req.Groups) == 0 {
		errs = append(errs, FieldError{Field: "groups", Message: "at least one group is required"})
	}
	if len(req.Companies) == 0 {
		errs = append(errs, FieldError{Field: "companies", Message: "at least one company is required"})
	}

	return errs
}

// UpdateUserRequest mirrors the fields needed for update validation.
type UpdateUserRequest struct {
	Login string
	Name  string
	Email string
}

// ValidateUpdateUserRequest validates the fields of an update request.
func ValidateUpdateUserRequest(req UpdateUserRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Login) == "" {
		errs = append(errs, FieldError{Field: "login", Message: "login is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}

	return errs
}
