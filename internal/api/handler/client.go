package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/api/validation"
	"github.com/RicardoInfonetGyn/bastos/internal/client"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
	"github.com/RicardoInfonetGyn/bastos/internal/user"
)

var clientProfileLabels = map[string]string{
	"label.full_name": "Full name",
	"label.phone":     "Phone",
	"label.photo":     "Photo",
}

type registerClientRequest struct {
	FullName  string  `json:"fullName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	SignupAt  string  `json:"signupAt"`
	CompanyID int64   `json:"companyId"`
	Login     string  `json:"login"`
	Photo     *string `json:"photo,omitempty"`
}

type clientProfileResponse struct {
	Picture  *string           `json:"picture,omitempty"`
	ClientID *int64            `json:"clientId,omitempty"`
	FullName *string           `json:"fullName,omitempty"`
	Phone    *string           `json:"phone,omitempty"`
	Labels   map[string]string `json:"labels"`
}

// ClientHandler handles the client registration endpoints.
type ClientHandler struct {
	clientRepo  client.Repository
	i18nService *i18n.Service
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientRepo client.Repository, i18nService *i18n.Service) *ClientHandler {
	return &ClientHandler{clientRepo: clientRepo, i18nService: i18nService}
}

// Register handles POST /api/clients. It upserts the client by
// (phone, company) and links the resulting id back to the user row.
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req registerClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterClientRequest(validation.RegisterClientRequest{
		FullName:  req.FullName,
		Phone:     req.Phone,
		CompanyID: req.CompanyID,
		Login:     req.Login,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	c := &client.Client{
		CompanyID: req.CompanyID,
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     user.NormalizePhone(req.Phone),
		SignupAt:  req.SignupAt,
		Photo:     req.Photo,
	}

	if err := h.clientRepo.Upsert(r.Context(), c); err != nil {
		slog.Error("failed to save client", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save client", requestID)
		return
	}

	if err := h.clientRepo.LinkToUser(r.Context(), req.Login, c.ID, req.Photo); err != nil {
		if errors.Is(err, client.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to link client to user", "login", req.Login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save client", requestID)
		return
	}

	response.Success(w, http.StatusOK, map[string]int64{"clientId": c.ID}, requestID)
}

// Profile handles GET /api/clients/{login}.
func (h *ClientHandler) Profile(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	login := chi.URLParam(r, "login")

	p, err := h.clientRepo.ProfileForLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, client.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
			return
		}
		slog.Error("failed to get client profile", "login", login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get client profile", requestID)
		return
	}

	labels := h.i18nService.Labels(r.Context(), login, clientProfileLabels)

	response.Success(w, http.StatusOK, clientProfileResponse{
		Picture:  p.Picture,
		ClientID: p.ClientID,
		FullName: p.FullName,
		Phone:    p.Phone,
		Labels:   labels,
	}, requestID)
}
