// Package store persists the shop's named JSON documents in a key-value byte store.
package store

import (
	"context"
	"errors"
)

// Document keys
const (
	KeyProducts      = "products"
	KeyOrders        = "orders"
	KeyContactInfo   = "contact_info"
	KeyAdminPassword = "admin_password"
)

// ErrKeyNotFound is returned by a KV when nothing is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// KV is an opaque byte store. Set overwrites the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
