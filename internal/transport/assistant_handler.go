package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/assistant"
	"abs-store/internal/middleware"
)

// AskRequest is a shopper question for the help desk
type AskRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// RecommendRequest describes what the shopper is interested in
type RecommendRequest struct {
	Interests string `json:"interests" validate:"required,max=500"`
}

// AssistantHandler handles the AI help desk
type AssistantHandler struct {
	gateway *assistant.Gateway
	guard   *assistant.BusyGuard
	logger  *zap.Logger
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(gateway *assistant.Gateway, guard *assistant.BusyGuard, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{gateway: gateway, guard: guard, logger: logger}
}

// RegisterRoutes registers the assistant routes behind limiter
func (h *AssistantHandler) RegisterRoutes(r chi.Router, limiter func(http.Handler) http.Handler) {
	r.Route("/api/assistant", func(r chi.Router) {
		r.Use(limiter)
		r.Post("/ask", h.Ask)
		r.Post("/recommendations", h.Recommend)
	})
}

// Ask answers with the model's reply or a fallback; it fails only while the
// same session already has a question in flight.
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req AskRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	release, err := h.guard.Acquire(session)
	if err != nil {
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	defer release()

	// The round trip runs to completion even if the client goes away
	reply := h.gateway.Ask(context.WithoutCancel(r.Context()), req.Query)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *AssistantHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req RecommendRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	release, err := h.guard.Acquire(session)
	if err != nil {
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	defer release()

	recs := h.gateway.Recommend(context.WithoutCancel(r.Context()), req.Interests)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"recommendations": recs})
}
