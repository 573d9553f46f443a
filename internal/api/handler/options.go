package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/company"
	"github.com/RicardoInfonetGyn/bastos/internal/user"
)

// OptionsHandler serves the form option lookups: groups, the caller's
// companies, and a company's units.
type OptionsHandler struct {
	userRepo    user.Repository
	companyRepo company.Repository
}

// NewOptionsHandler creates a new OptionsHandler.
func NewOptionsHandler(userRepo user.Repository, companyRepo company.Repository) *OptionsHandler {
	return &OptionsHandler{userRepo: userRepo, companyRepo: companyRepo}
}

// Groups handles GET /api/options/groups.
func (h *OptionsHandler) Groups(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	groups, err := h.userRepo.ListGroups(r.Context())
	if err != nil {
		slog.Error("failed to list groups", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list groups", requestID)
		return
	}

	out := make([]refResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, refResponse(g))
	}

	response.Success(w, http.StatusOK, out, requestID)
}

// Companies handles GET /api/options/companies; it lists the active
// companies the caller is a member of.
func (h *OptionsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
		return
	}

	companies, err := h.companyRepo.ListForLogin(r.Context(), identity.Login)
	if err != nil {
		slog.Error("failed to list companies", "login", identity.Login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list companies", requestID)
		return
	}

	out := make([]refResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, refResponse{ID: c.ID, Name: c.Name})
	}

	response.Success(w, http.StatusOK, out, requestID)
}

// Units handles GET /api/options/units?companyId=.
func (h *OptionsHandler) Units(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	companyID, err := strconv.ParseInt(r.URL.Query().Get("companyId"), 10, 64)
	if err != nil || companyID <= 0 {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "companyId must be a positive integer", requestID)
		return
	}

	units, err := h.companyRepo.UnitsForCompany(r.Context(), companyID)
	if err != nil {
		slog.Error("failed to list units", "companyId", companyID, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list units", requestID)
		return
	}

	out := make([]refResponse, 0, len(units))
	for _, u := range units {
		out = append(out, refResponse{ID: u.ID, Name: u.Name})
	}

	response.Success(w, http.StatusOK, out, requestID)
}
