package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/api/validation"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
	"github.com/RicardoInfonetGyn/bastos/internal/obs"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
}

type selectCompanyUnitRequest struct {
	CompanyID int64 `json:"companyId"`
	UnitID    int64 `json:"unitId"`
}

type refResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type companyResponse struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Units []refResponse `json:"units"`
}

type profileResponse struct {
	Login          string  `json:"login"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Admin          bool    `json:"admin"`
	GroupID        int64   `json:"groupId"`
	GroupName      string  `json:"groupName"`
	Picture        *string `json:"picture,omitempty"`
	PractitionerID *int64  `json:"practitionerId,omitempty"`
	StudentID      string  `json:"studentId"`
}

type loginResponse struct {
	Token       string                        `json:"token"`
	User        profileResponse               `json:"user"`
	Permissions map[string]auth.PermissionSet `json:"permissions"`
	Companies   []companyResponse             `json:"companies"`
	Locale      string                        `json:"locale"`
}

type selectionResponse struct {
	Token           string      `json:"token"`
	SelectedCompany refResponse `json:"selectedCompany"`
	SelectedUnit    refResponse `json:"selectedUnit"`
}

type identityResponse struct {
	Login     string `json:"login"`
	GroupID   int64  `json:"groupId"`
	CompanyID *int64 `json:"companyId,omitempty"`
	UnitID    *int64 `json:"unitId,omitempty"`
	Scoped    bool   `json:"scoped"`
}

// AuthHandler handles the authentication endpoints.
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Login:    req.Login,
		Password: req.Password,
		Locale:   req.Locale,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if req.Locale == "" {
		req.Locale = i18n.DefaultLocale
	}

	result, err := h.authService.Authenticate(r.Context(), req.Login, req.Password, req.Locale)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			obs.CountLogin("denied")
			response.Err(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login or password", requestID)
		case errors.Is(err, auth.ErrAccountInactive):
			obs.CountLogin("denied")
			response.Err(w, http.StatusUnauthorized, "ACCOUNT_INACTIVE", "User account is inactive", requestID)
		case errors.Is(err, auth.ErrNoCompanyAccess):
			obs.CountLogin("denied")
			response.Err(w, http.StatusUnauthorized, "NO_COMPANY_ACCESS", "User has no access to any company", requestID)
		default:
			obs.CountLogin("error")
			slog.Error("login failed", "login", req.Login, "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
		}
		return
	}

	obs.CountLogin("success")
	response.Success(w, http.StatusOK, toLoginResponse(result), requestID)
}

// SelectCompanyUnit handles POST /api/auth/select-company-unit.
func (h *AuthHandler) SelectCompanyUnit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req selectCompanyUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateSelectCompanyUnitRequest(validation.SelectCompanyUnitRequest{
		CompanyID: req.CompanyID,
		UnitID:    req.UnitID,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	result, err := h.authService.SelectCompanyUnit(r.Context(), identity.Login, req.CompanyID, req.UnitID)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrCompanyAccessDenied), errors.Is(err, company.ErrCompanyNotFound):
			response.Err(w, http.StatusBadRequest, "COMPANY_ACCESS_DENIED", "User has no access to this company", requestID)
		case errors.Is(err, company.ErrUnitNotFound):
			response.Err(w, http.StatusBadRequest, "UNIT_NOT_FOUND", "Unit not found or does not belong to the selected company", requestID)
		case errors.Is(err, auth.ErrUserNotFound):
			response.Err(w, http.StatusBadRequest, "USER_NOT_FOUND", "User not found", requestID)
		default:
			slog.Error("company/unit selection failed", "login", identity.Login, "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Selection failed", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, selectionResponse{
		Token:           result.Token,
		SelectedCompany: refResponse(result.SelectedCompany),
		SelectedUnit:    refResponse(result.SelectedUnit),
	}, requestID)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
		return
	}

	token := middleware.BearerToken(r)
	if err := h.authService.Logout(r.Context(), identity.Login, token); err != nil {
		slog.Error("logout failed", "login", identity.Login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Logout failed", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]bool{"loggedOut": true}, requestID)
}

// Validate handles GET /api/auth/validate; it echoes the decoded
// identity when the bearer token verifies.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
		return
	}

	response.Success(w, http.StatusOK, identityResponse{
		Login:     identity.Login,
		GroupID:   identity.GroupID,
		CompanyID: identity.CompanyID,
		UnitID:    identity.UnitID,
		Scoped:    identity.Scoped(),
	}, requestID)
}

func toLoginResponse(result *auth.LoginResult) loginResponse {
	companies := make([]companyResponse, 0, len(result.Companies))
	for _, c := range result.Companies {
		units := make([]refResponse, 0, len(c.Units))
		for _, u := range c.Units {
			units = append(units, refResponse(u))
		}
		companies = append(companies, companyResponse{ID: c.ID, Name: c.Name, Units: units})
	}

	return loginResponse{
		Token: result.Token,
		User: profileResponse{
			Login:          result.User.Login,
			Name:           result.User.Name,
			Email:          result.User.Email,
			Admin:          result.User.Admin,
			GroupID:        result.User.GroupID,
			GroupName:      result.User.GroupName,
			Picture:        result.User.Picture,
			PractitionerID: result.User.PractitionerID,
			StudentID:      result.User.StudentID,
		},
		Permissions: result.Permissions,
		Companies:   companies,
		Locale:      result.Locale,
	}
}
