package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/store"
)

// ProductRepository persists the catalog as one ordered document
type ProductRepository interface {
	// LoadAll returns the stored catalog, or the default catalog on first run
	LoadAll(ctx context.Context) []domain.Product
	SaveAll(ctx context.Context, products []domain.Product) error
}

type productRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(kv store.KV, logger *zap.Logger) ProductRepository {
	return &productRepository{kv: kv, logger: logger}
}

func (r *productRepository) LoadAll(ctx context.Context) []domain.Product {
	products := store.Load(ctx, r.kv, store.KeyProducts, domain.DefaultProducts(), r.logger)
	if products == nil {
		return []domain.Product{}
	}
	return products
}

func (r *productRepository) SaveAll(ctx context.Context, products []domain.Product) error {
	if err := store.Save(ctx, r.kv, store.KeyProducts, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}
