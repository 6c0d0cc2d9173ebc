package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrInvalidCategory = errors.New("invalid category")
)

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	List(query string, category domain.Category) []domain.Product
	Get(id string) (domain.Product, error)
	Add(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	mu       sync.RWMutex
	products []domain.Product
	repo     repository.ProductRepository
	logger   *zap.Logger
}

// NewCatalogService loads the catalog from the repository
func NewCatalogService(ctx context.Context, repo repository.ProductRepository, logger *zap.Logger) CatalogService {
	products := repo.LoadAll(ctx)
	logger.Info("Catalog loaded", zap.Int("products", len(products)))

	return &catalogService{
		products: products,
		repo:     repo,
		logger:   logger,
	}
}

// Filter returns the products whose name, author or description contains
// query (case-insensitive) and whose category matches. CategoryAll and the
// empty category match everything. Order is preserved.
func Filter(products []domain.Product, query string, category domain.Category) []domain.Product {
	needle := strings.ToLower(query)
	out := make([]domain.Product, 0, len(products))

	for _, p := range products {
		if category != "" && category != domain.CategoryAll && p.Category != category {
			continue
		}
		if needle != "" && !matchesQuery(p, needle) {
			continue
		}
		out = append(out, p)
	}

	return out
}

func matchesQuery(p domain.Product, needle string) bool {
	for _, field := range []string{p.Name, p.Author, p.Description} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *catalogService) List(query string, category domain.Category) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Filter(s.products, query, category)
}

func (s *catalogService) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOfProduct(s.products, id); i >= 0 {
		return s.products[i], nil
	}
	return domain.Product{}, ErrProductNotFound
}

// Add prepends a product, so the newest product is listed first
func (s *catalogService) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	if !product.Category.Valid() {
		return domain.Product{}, ErrInvalidCategory
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Image == "" {
		product.Image = PlaceholderImage(product.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfProduct(s.products, product.ID) >= 0 {
		return domain.Product{}, ErrProductExists
	}

	next := make([]domain.Product, 0, len(s.products)+1)
	next = append(next, product)
	next = append(next, s.products...)

	if err := s.commit(ctx, next); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Product added", zap.String("product_id", product.ID))
	return product, nil
}

// Update replaces the product with the same id
func (s *catalogService) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	if !product.Category.Valid() {
		return domain.Product{}, ErrInvalidCategory
	}
	if product.Image == "" {
		product.Image = PlaceholderImage(product.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfProduct(s.products, product.ID)
	if i < 0 {
		return domain.Product{}, ErrProductNotFound
	}

	next := make([]domain.Product, len(s.products))
	copy(next, s.products)
	next[i] = product

	if err := s.commit(ctx, next); err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return product, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfProduct(s.products, id)
	if i < 0 {
		return ErrProductNotFound
	}

	next := make([]domain.Product, 0, len(s.products)-1)
	next = append(next, s.products[:i]...)
	next = append(next, s.products[i+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// commit persists next and only then makes it the live catalog. Callers hold mu.
func (s *catalogService) commit(ctx context.Context, next []domain.Product) error {
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	s.products = next
	return nil
}

// PlaceholderImage is used for products saved without an image
func PlaceholderImage(id string) string {
	return "https://picsum.photos/seed/" + id + "/400/500"
}

func indexOfProduct(products []domain.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
