package service

import (
	"context"
	"errors"
	"sync/atomic"

	"go.uber.org/zap"

	"abs-store/internal/repository"
	"abs-store/internal/store"
)

var errWriteRefused = errors.New("write refused")

// flakyKV wraps a MemoryKV and refuses writes while failWrites is set
type flakyKV struct {
	*store.MemoryKV
	failWrites atomic.Bool
}

func newFlakyKV() *flakyKV {
	return &flakyKV{MemoryKV: store.NewMemoryKV()}
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.failWrites.Load() {
		return errWriteRefused
	}
	return f.MemoryKV.Set(ctx, key, value)
}

type testShop struct {
	kv       *flakyKV
	catalog  CatalogService
	carts    CartService
	settings SettingsService
	orders   OrderService
}

func newTestShop() *testShop {
	ctx := context.Background()
	logger := zap.NewNop()
	kv := newFlakyKV()

	catalog := NewCatalogService(ctx, repository.NewProductRepository(kv, logger), logger)
	carts := NewCartService(catalog, logger)
	settings := NewSettingsService(ctx, repository.NewSettingsRepository(kv, logger), logger)
	orders := NewOrderService(ctx, repository.NewOrderRepository(kv, logger), carts, settings, OrderOptions{}, logger)

	return &testShop{kv: kv, catalog: catalog, carts: carts, settings: settings, orders: orders}
}

// newCatalogFrom reloads the catalog from the shop's store, as a restart would
func newCatalogFrom(shop *testShop) CatalogService {
	logger := zap.NewNop()
	return NewCatalogService(context.Background(), repository.NewProductRepository(shop.kv, logger), logger)
}
