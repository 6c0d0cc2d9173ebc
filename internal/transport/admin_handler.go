package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// LoginRequest represents the admin login payload
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the admin bearer token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ChangePasswordRequest sets a new admin password
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// AdminHandler handles admin authentication
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// RegisterAdminRoutes registers the password change under an authenticated router
func (h *AdminHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/password", h.ChangePassword)
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	token, expiresAt, err := h.admin.Login(r.Context(), req.Password)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to login")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.UTC(),
	})
}

func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	if err := h.admin.ChangePassword(r.Context(), req.Password); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to change password")
		return
	}

	subject, _ := middleware.GetSubject(r.Context())
	h.logger.Info("Admin password changed", zap.String("subject", subject))
	w.WriteHeader(http.StatusNoContent)
}
