package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/api/validation"
	"github.com/RicardoInfonetGyn/bastos/internal/auth"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
	"github.com/RicardoInfonetGyn/bastos/internal/user"
)

// Fallback labels served when a key has no translation row.
var userListLabels = map[string]string{
	"label.login":    "Login",
	"label.name":     "Name",
	"label.email":    "Email",
	"label.phone":    "Phone",
	"label.unit":     "Unit",
	"label.company":  "Company",
	"label.city":     "City",
	"label.position": "Position",
	"label.groups":   "Groups",
	"label.level":    "Level",
	"label.status":   "Status",
	"label.photo":    "Photo",
}

type registerUserRequest struct {
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Picture   *string `json:"picture,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Level     *string `json:"level,omitempty"`
	UnitID    *int64  `json:"unitId,omitempty"`
	City      *string `json:"city,omitempty"`
	Position  *string `json:"position,omitempty"`
	Groups    []int64 `json:"groups"`
	Companies []int64 `json:"companies"`
}

type updateUserRequest struct {
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	Password  string  `json:"password,omitempty"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone,omitempty"`
	Picture   *string `json:"picture,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Level     *string `json:"level,omitempty"`
	UnitID    *int64  `json:"unitId,omitempty"`
	City      *string `json:"city,omitempty"`
	Position  *string `json:"position,omitempty"`
	Groups    []int64 `json:"groups,omitempty"`
	Companies []int64 `json:"companies,omitempty"`
}

type userSummaryResponse struct {
	Login     string  `json:"login"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Picture   *string `json:"picture,omitempty"`
	Profile   *string `json:"profile,omitempty"`
	Level     *string `json:"level,omitempty"`
	UnitID    *int64  `json:"unitId,omitempty"`
	UnitName  *string `json:"unitName,omitempty"`
	City      *string `json:"city,omitempty"`
	Position  *string `json:"position,omitempty"`
	Groups    *string `json:"groups,omitempty"`
	Companies *string `json:"companies,omitempty"`
}

type userListResponse struct {
	Users  []userSummaryResponse `json:"users"`
	Labels map[string]string     `json:"labels"`
}

type userDetailResponse struct {
	Login     string        `json:"login"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Picture   *string       `json:"picture,omitempty"`
	Profile   *string       `json:"profile,omitempty"`
	Level     *string       `json:"level,omitempty"`
	UnitID    *int64        `json:"unitId,omitempty"`
	City      *string       `json:"city,omitempty"`
	Position  *string       `json:"position,omitempty"`
	Active    bool          `json:"active"`
	Groups    []refResponse `json:"groups"`
	Companies []refResponse `json:"companies"`
}

// UserHandler handles the user directory endpoints.
type UserHandler struct {
	userRepo    user.Repository
	i18nService *i18n.Service
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo user.Repository, i18nService *i18n.Service) *UserHandler {
	return &UserHandler{userRepo: userRepo, i18nService: i18nService}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	f := user.Filter{
		Login: r.URL.Query().Get("login"),
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 10
	}
	if v := r.URL.Query().Get("companyId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.CompanyID = &id
		}
	}
	if v := r.URL.Query().Get("unitId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.UnitID = &id
		}
	}

	users, total, err := h.userRepo.List(r.Context(), f)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users", requestID)
		return
	}

	summaries := make([]userSummaryResponse, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, userSummaryResponse(u))
	}

	identity := middleware.GetIdentity(r.Context())
	labels := map[string]string{}
	if identity != nil {
		labels = h.i18nService.Labels(r.Context(), identity.Login, userListLabels)
	}

	response.SuccessList(w, http.StatusOK, userListResponse{
		Users:  summaries,
		Labels: labels,
	}, total, f.Page, f.Limit, requestID)
}

// Get handles GET /api/users/{login}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	login := chi.URLParam(r, "login")

	detail, err := h.userRepo.GetByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get user", "login", login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get user", requestID)
		return
	}

	groups := make([]refResponse, 0, len(detail.Groups))
	for _, g := range detail.Groups {
		groups = append(groups, refResponse(g))
	}
	companies := make([]refResponse, 0, len(detail.Companies))
	for _, c := range detail.Companies {
		companies = append(companies, refResponse(c))
	}

	response.Success(w, http.StatusOK, userDetailResponse{
		Login:     detail.Login,
		Name:      detail.Name,
		Email:     detail.Email,
		Phone:     detail.Phone,
		Picture:   detail.Picture,
		Profile:   detail.Profile,
		Level:     detail.Level,
		UnitID:    detail.UnitID,
		City:      detail.City,
		Position:  detail.Position,
		Active:    detail.Active,
		Groups:    groups,
		Companies: companies,
	}, requestID)
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterUserRequest(validation.RegisterUserRequest{
		Login:     req.Login,
		Name:      req.Name,
		Password:  req.Password,
		Email:     req.Email,
		Phone:     req.Phone,
		Groups:    req.Groups,
		Companies: req.Companies,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	newUser := &user.NewUser{
		Login:     req.Login,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     user.NormalizePhone(req.Phone),
		Digest:    auth.PasswordDigest(req.Password),
		Picture:   req.Picture,
		Profile:   req.Profile,
		Level:     req.Level,
		UnitID:    req.UnitID,
		City:      req.City,
		Position:  req.Position,
		Groups:    req.Groups,
		Companies: req.Companies,
	}

	if err := h.userRepo.Create(r.Context(), newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateLogin) {
			response.Err(w, http.StatusBadRequest, "DUPLICATE_LOGIN", "Login already exists", requestID)
			return
		}
		slog.Error("failed to register user", "login", req.Login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user", requestID)
		return
	}

	response.Success(w, http.StatusCreated, map[string]string{"login": newUser.Login}, requestID)
}

// Update handles PUT /api/users/{login}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	login := chi.URLParam(r, "login")

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateUpdateUserRequest(validation.UpdateUserRequest{
		Login: req.Login,
		Name:  req.Name,
		Email: req.Email,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	upd := &user.Update{
		Login:     req.Login,
		Name:      req.Name,
		Email:     req.Email,
		Picture:   req.Picture,
		Profile:   req.Profile,
		Level:     req.Level,
		UnitID:    req.UnitID,
		City:      req.City,
		Position:  req.Position,
		Groups:    req.Groups,
		Companies: req.Companies,
	}
	if req.Phone != "" {
		upd.Phone = user.NormalizePhone(req.Phone)
	}
	if req.Password != "" {
		upd.Digest = auth.PasswordDigest(req.Password)
	}

	if err := h.userRepo.Update(r.Context(), login, upd); err != nil {
		switch {
		case errors.Is(err, user.ErrUserNotFound):
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
		case errors.Is(err, user.ErrDuplicateLogin):
			response.Err(w, http.StatusBadRequest, "DUPLICATE_LOGIN", "Login already exists", requestID)
		default:
			slog.Error("failed to update user", "login", login, "error", err)
			response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user", requestID)
		}
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"login": req.Login}, requestID)
}

// Deactivate handles DELETE /api/users/{login}.
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	login := chi.URLParam(r, "login")

	if err := h.userRepo.Deactivate(r.Context(), login); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to deactivate user", "login", login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to deactivate user", requestID)
		return
	}

	response.NoContent(w)
}

func queryInt(r *http.Request, name string, fallback int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
