package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// SettingsHandler exposes the shop contact record
type SettingsHandler struct {
	settings service.SettingsService
	logger   *zap.Logger
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settings service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/settings/contact", h.GetContact)
}

func (h *SettingsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/settings/contact", h.UpdateContact)
}

func (h *SettingsHandler) GetContact(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.settings.Contact())
}

// UpdateContact overwrites the whole record; omitted fields become empty
func (h *SettingsHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var info domain.ContactInfo
	if err := middleware.DecodeAndValidate(r, &info); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	saved, err := h.settings.UpdateContact(r.Context(), info)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to save contact info")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, saved)
}
