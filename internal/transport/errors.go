package transport

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// respondWithServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognised is logged and reported as a 500 carrying fallback.
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrOrderItemNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProductExists),
		errors.Is(err, service.ErrCheckoutPending):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrPasswordTooShort):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error(fallback, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

// sessionFrom reads the shopper session or writes a 400
func sessionFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing session")
	}
	return session, ok
}
