package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/middleware"
	"abs-store/internal/service"
)

// ProductRequest is the admin product payload
type ProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=200"`
	Price       int64  `json:"price" validate:"gte=0,lte=100000000"`
	Category    string `json:"category" validate:"required,category"`
	Description string `json:"description" validate:"max=5000"`
	Image       string `json:"image" validate:"omitempty,url"`
	Author      string `json:"author"`
	Specs       string `json:"specs"`
}

func (p ProductRequest) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    domain.Category(p.Category),
		Description: p.Description,
		Image:       p.Image,
		Author:      p.Author,
		Specs:       p.Specs,
	}
}

// CatalogHandler handles HTTP requests for the catalog
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the public catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/products/{id}", h.GetProduct)
	r.Get("/api/categories", h.ListCategories)
}

// RegisterAdminRoutes registers product management under an authenticated router
func (h *CatalogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/products", h.CreateProduct)
	r.Put("/products/{id}", h.UpdateProduct)
	r.Delete("/products/{id}", h.DeleteProduct)
}

// ListProducts handles GET /api/products?q=&category=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category, err := domain.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	products := h.catalog.List(r.URL.Query().Get("q"), category)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to get product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListCategories returns the filter choices, wildcard first
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]domain.Category{domain.CategoryAll}, domain.Categories...)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product, err := h.catalog.Add(r.Context(), req.toDomain())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct replaces the product named in the path; a body id is ignored
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product := req.toDomain()
	product.ID = chi.URLParam(r, "id")

	updated, err := h.catalog.Update(r.Context(), product)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
