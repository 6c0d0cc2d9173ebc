package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"abs-store/internal/assistant"
	"abs-store/internal/domain"
	"abs-store/internal/middleware"
	"abs-store/internal/repository"
	"abs-store/internal/service"
	"abs-store/internal/store"
)

func newCatalogRouter(t *testing.T) (http.Handler, service.CatalogService) {
	t.Helper()
	logger := zap.NewNop()
	catalog := service.NewCatalogService(context.Background(), repository.NewProductRepository(store.NewMemoryKV(), logger), logger)
	carts := service.NewCartService(catalog, logger)

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware)
	NewCatalogHandler(catalog, logger).RegisterRoutes(r)
	NewCartHandler(carts, logger).RegisterRoutes(r)
	r.Route("/api/admin", NewCatalogHandler(catalog, logger).RegisterAdminRoutes)
	return r, catalog
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	return httptest.NewRequest(method, path, &buf)
}

// Feature: storefront, Property 14: Service errors map to stable statuses
func TestProperty_ServiceErrorsMapToStatuses(t *testing.T) {
	statuses := map[error]int{
		service.ErrProductNotFound:    http.StatusNotFound,
		service.ErrCartItemNotFound:   http.StatusNotFound,
		service.ErrOrderNotFound:      http.StatusNotFound,
		service.ErrOrderItemNotFound:  http.StatusNotFound,
		service.ErrProductExists:      http.StatusConflict,
		service.ErrCheckoutPending:    http.StatusConflict,
		service.ErrInvalidCategory:    http.StatusBadRequest,
		service.ErrEmptyCart:          http.StatusBadRequest,
		service.ErrPasswordTooShort:   http.StatusBadRequest,
		service.ErrInvalidCredentials: http.StatusUnauthorized,
	}
	sentinels := make([]interface{}, 0, len(statuses))
	for err := range statuses {
		sentinels = append(sentinels, err)
	}

	properties := gopter.NewProperties(nil)

	properties.Property("wrapped sentinels keep their status; unknown errors are 500", prop.ForAll(
		func(sentinel error, msg string) bool {
			w := httptest.NewRecorder()
			respondWithServiceError(w, zap.NewNop(), fmt.Errorf("%s: %w", msg, sentinel), "fallback")
			if w.Code != statuses[sentinel] {
				return false
			}

			w = httptest.NewRecorder()
			respondWithServiceError(w, zap.NewNop(), errors.New(msg), "fallback")
			return w.Code == http.StatusInternalServerError
		},
		gen.OneConstOf(sentinels...),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 15: Product listing honours the category filter
func TestProperty_ListProductsByCategory(t *testing.T) {
	router, _ := newCatalogRouter(t)
	properties := gopter.NewProperties(nil)

	properties.Property("every listed product belongs to the requested category", prop.ForAll(
		func(category domain.Category) bool {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products?category="+url.QueryEscape(string(category)), nil))
			if w.Code != http.StatusOK {
				return false
			}

			var body struct {
				Products []domain.Product `json:"products"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				return false
			}
			for _, p := range body.Products {
				if p.Category != category {
					return false
				}
			}
			return len(body.Products) > 0
		},
		gen.OneConstOf(domain.CategoryBookstore, domain.CategoryStationery, domain.CategoryComputerAccessories),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCatalogHandler_Errors(t *testing.T) {
	router, _ := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products?category=Toys", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/products/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/admin/products", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/admin/products", map[string]interface{}{"name": "Pen", "price": -1, "category": "Stationery"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_errors")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/admin/products", map[string]interface{}{"id": "b1", "name": "Dup", "category": "Bookstore"}))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCatalogHandler_UpdateUsesPathID(t *testing.T) {
	router, catalog := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PUT", "/api/admin/products/c1", map[string]interface{}{
		"id": "other", "name": "MX Master 4", "price": 11000, "category": "Computer Accessories",
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := catalog.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, "MX Master 4", got.Name)
	assert.Equal(t, service.PlaceholderImage("c1"), got.Image)
}

func TestCartHandler_RequiresSession(t *testing.T) {
	logger := zap.NewNop()
	catalog := service.NewCatalogService(context.Background(), repository.NewProductRepository(store.NewMemoryKV(), logger), logger)

	r := chi.NewRouter()
	NewCartHandler(service.NewCartService(catalog, logger), logger).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/cart", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_UnknownItems(t *testing.T) {
	router, _ := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/cart/items", map[string]string{"productId": "ghost"}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("PATCH", "/api/cart/items/b1", map[string]int{"delta": 1}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/cart/items/b1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingGenerator) Generate(_ context.Context, _ assistant.Request) (string, error) {
	close(b.started)
	<-b.release
	return "উত্তর", nil
}

func TestAssistantHandler_DuplicateAskRejected(t *testing.T) {
	logger := zap.NewNop()
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	gateway := assistant.NewGateway(gen, nil, assistant.Config{}, logger)

	r := chi.NewRouter()
	r.Use(middleware.SessionMiddleware)
	NewAssistantHandler(gateway, assistant.NewBusyGuard(), logger).RegisterRoutes(r, func(next http.Handler) http.Handler { return next })

	session := "3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
	ask := func() *httptest.ResponseRecorder {
		req := jsonRequest("POST", "/api/assistant/ask", map[string]string{"query": "কলম আছে?"})
		req.Header.Set(middleware.SessionHeader, session)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := make(chan *httptest.ResponseRecorder)
	go func() { first <- ask() }()
	<-gen.started

	assert.Equal(t, http.StatusConflict, ask().Code)

	close(gen.release)
	w := <-first
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "উত্তর")
}

func TestCartHandler_RejectsOutOfRangeDelta(t *testing.T) {
	router, _ := newCatalogRouter(t)
	session := "7b0e4c1a-2d3f-4e5a-9b6c-1d2e3f4a5b6c"

	send := func(req *http.Request) *httptest.ResponseRecorder {
		req.Header.Set(middleware.SessionHeader, session)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, send(jsonRequest("POST", "/api/cart/items", map[string]string{"productId": "b1"})).Code)

	w := send(jsonRequest("PATCH", "/api/cart/items/b1", map[string]int64{"delta": 1 << 40}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_errors")

	w = send(jsonRequest("PATCH", "/api/cart/items/b1", map[string]int{"delta": 5}))
	require.Equal(t, http.StatusOK, w.Code)

	var view service.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 6, view.Items[0].Quantity)
	assert.Equal(t, int64(6*1200), view.Subtotal)
}

func TestCatalogHandler_RejectsOversizedPrice(t *testing.T) {
	router, _ := newCatalogRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/admin/products", map[string]interface{}{
		"name": "Gold Pen", "price": int64(1) << 62, "category": "Stationery",
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "less than or equal to")
}
