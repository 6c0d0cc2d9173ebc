package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// CheckoutRequest carries the customer's delivery details and claimed payment reference
type CheckoutRequest struct {
	CustomerName  string `json:"customerName" validate:"required,max=200"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Address       string `json:"address" validate:"required,max=1000"`
	TransactionID string `json:"transactionId" validate:"max=100"`
}

// OrderHandler handles checkout and the admin order ledger
type OrderHandler struct {
	orders service.OrderService
	logger *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// RegisterRoutes registers the public checkout route
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/checkout", h.Checkout)
}

// RegisterAdminRoutes registers ledger management under an authenticated router
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/orders", h.ListOrders)
	r.Delete("/orders", h.ClearOrders)
	r.Delete("/orders/{id}", h.DeleteOrder)
	r.Delete("/orders/{id}/items/{itemId}", h.RemoveOrderItem)
}

// Checkout turns the session cart into an order
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	result, err := h.orders.Checkout(r.Context(), session, service.CheckoutDetails{
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to place order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.List()
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *OrderHandler) ClearOrders(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.ClearAll(r.Context()); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to clear orders")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete order")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveOrderItem answers with the updated order, or deleted=true when the order emptied
func (h *OrderHandler) RemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to remove order item")
		return
	}

	if order == nil {
		middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"deleted": false, "order": order})
}
