package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"abs-store/internal/domain"
	"abs-store/internal/store"
)

// OrderRepository persists the order ledger as one ordered document, newest first
type OrderRepository interface {
	LoadAll(ctx context.Context) []domain.Order
	SaveAll(ctx context.Context, orders []domain.Order) error
}

type orderRepository struct {
	kv     store.KV
	logger *zap.Logger
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(kv store.KV, logger *zap.Logger) OrderRepository {
	return &orderRepository{kv: kv, logger: logger}
}

func (r *orderRepository) LoadAll(ctx context.Context) []domain.Order {
	orders := store.Load(ctx, r.kv, store.KeyOrders, []domain.Order{}, r.logger)
	if orders == nil {
		return []domain.Order{}
	}
	return orders
}

func (r *orderRepository) SaveAll(ctx context.Context, orders []domain.Order) error {
	if err := store.Save(ctx, r.kv, store.KeyOrders, orders); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}
