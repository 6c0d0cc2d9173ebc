package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// AddCartItemRequest adds one unit of a product
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// UpdateCartItemRequest shifts a line's quantity; the result stays within [1, domain.MaxQuantity]
type UpdateCartItemRequest struct {
	Delta int `json:"delta" validate:"gte=-999,lte=999"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{id}", h.UpdateItem)
		r.Delete("/items/{id}", h.RemoveItem)
	})
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.carts.View(session))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, err := h.carts.AddToCart(session, req.ProductID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to add to cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	view, err := h.carts.UpdateQuantity(session, chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	view, err := h.carts.Remove(session, chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to remove from cart")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}
