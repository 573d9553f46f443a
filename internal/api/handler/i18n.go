package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/RicardoInfonetGyn/bastos/internal/api/middleware"
	"github.com/RicardoInfonetGyn/bastos/internal/api/response"
	"github.com/RicardoInfonetGyn/bastos/internal/i18n"
)

type languageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// I18nHandler handles the translation lookup endpoints.
type I18nHandler struct {
	i18nService *i18n.Service
}

// NewI18nHandler creates a new I18nHandler.
func NewI18nHandler(i18nService *i18n.Service) *I18nHandler {
	return &I18nHandler{i18nService: i18nService}
}

// Languages handles GET /api/i18n/languages.
func (h *I18nHandler) Languages(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	languages, err := h.i18nService.Languages(r.Context())
	if err != nil {
		slog.Error("failed to list languages", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list languages", requestID)
		return
	}

	out := make([]languageResponse, 0, len(languages))
	for _, l := range languages {
		out = append(out, languageResponse{Code: l.Code, Name: l.Name})
	}

	response.Success(w, http.StatusOK, out, requestID)
}

// Translations handles GET /api/i18n/translations; the language is
// resolved from the authenticated user's stored locale.
func (h *I18nHandler) Translations(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		response.Err(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Access token is required", requestID)
		return
	}

	translations, err := h.i18nService.TranslationsForLogin(r.Context(), identity.Login)
	if err != nil {
		if errors.Is(err, i18n.ErrLanguageNotFound) {
			response.Err(w, http.StatusNotFound, "LANGUAGE_NOT_FOUND", "Language not found", requestID)
			return
		}
		slog.Error("failed to load translations", "login", identity.Login, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load translations", requestID)
		return
	}

	response.Success(w, http.StatusOK, translations, requestID)
}
