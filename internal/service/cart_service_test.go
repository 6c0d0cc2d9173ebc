package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"abs-store/internal/domain"
)

type cartOp struct {
	Kind      int // 0 add, 1 delta, 2 remove
	ProductID string
	Delta     int
}

func genCartOps() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, 2),
		gen.OneConstOf("b1", "b2", "s1", "s2", "c1", "c2"),
		gen.IntRange(-10, 10),
	).Map(func(v []interface{}) cartOp {
		return cartOp{Kind: v[0].(int), ProductID: v[1].(string), Delta: v[2].(int)}
	}))
}

func applyCartOps(carts CartService, session string, ops []cartOp) {
	for _, op := range ops {
		switch op.Kind {
		case 0:
			_, _ = carts.AddToCart(session, op.ProductID)
		case 1:
			_, _ = carts.UpdateQuantity(session, op.ProductID, op.Delta)
		case 2:
			_, _ = carts.Remove(session, op.ProductID)
		}
	}
}

// Feature: storefront, Property 6: Cart quantities never drop below one
func TestProperty_CartQuantitiesStayPositive(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every present item has quantity >= 1 and ids are unique", prop.ForAll(
		func(ops []cartOp) bool {
			shop := newTestShop()
			applyCartOps(shop.carts, "s", ops)

			seen := map[string]bool{}
			for _, item := range shop.carts.View("s").Items {
				if item.Quantity < 1 || seen[item.ID] {
					return false
				}
				seen[item.ID] = true
			}
			return true
		},
		genCartOps(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 7: Subtotal is the sum of line totals
func TestProperty_SubtotalMatchesLines(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subtotal equals sum of price * quantity", prop.ForAll(
		func(ops []cartOp) bool {
			shop := newTestShop()
			applyCartOps(shop.carts, "s", ops)

			view := shop.carts.View("s")
			var sum int64
			for _, item := range view.Items {
				sum += item.Price * int64(item.Quantity)
			}
			return view.Subtotal == sum && shop.carts.Subtotal("s") == sum
		},
		genCartOps(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront, Property 8: Removing an id removes the line entirely
func TestProperty_RemoveDropsLine(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("after remove the id is absent", prop.ForAll(
		func(ops []cartOp, id string) bool {
			shop := newTestShop()
			applyCartOps(shop.carts, "s", ops)
			_, _ = shop.carts.AddToCart("s", id)

			view, err := shop.carts.Remove("s", id)
			return err == nil && indexOfItem(view.Items, id) < 0
		},
		genCartOps(),
		gen.OneConstOf("b1", "s2", "c1"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCart_QuantityFloorExample(t *testing.T) {
	shop := newTestShop()

	_, err := shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)

	view, err := shop.carts.UpdateQuantity("s", "b1", -5)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, int64(1200), view.Subtotal)
}

// Feature: storefront, Property 16: Quantity changes stay within bounds
func TestProperty_ExtremeDeltasStayBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("any delta sequence keeps quantity in [1, MaxQuantity] and subtotal exact", prop.ForAll(
		func(deltas []int) bool {
			shop := newTestShop()
			if _, err := shop.carts.AddToCart("s", "b1"); err != nil {
				return false
			}

			for _, delta := range deltas {
				view, err := shop.carts.UpdateQuantity("s", "b1", delta)
				if err != nil {
					return false
				}
				item := view.Items[0]
				if item.Quantity < 1 || item.Quantity > domain.MaxQuantity {
					return false
				}
				if view.Subtotal != item.Price*int64(item.Quantity) || view.Subtotal <= 0 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCart_HugeDeltaSaturates(t *testing.T) {
	shop := newTestShop()

	_, err := shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)
	_, err = shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)

	view, err := shop.carts.UpdateQuantity("s", "b1", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, view.Items[0].Quantity)

	_, err = shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)
	view, err = shop.carts.UpdateQuantity("s", "b1", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxQuantity, view.Items[0].Quantity)

	result, err := shop.orders.Checkout(context.Background(), "s", testDetails)
	require.NoError(t, err)
	assert.Equal(t, int64(1200*domain.MaxQuantity), result.Order.Total)

	_, err = shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)
	view, err = shop.carts.UpdateQuantity("s", "b1", math.MinInt)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Items[0].Quantity)
}

func TestCart_AddIncrementsAndOpens(t *testing.T) {
	shop := newTestShop()

	view, err := shop.carts.AddToCart("s", "s1")
	require.NoError(t, err)
	assert.True(t, view.Open)

	view, err = shop.carts.AddToCart("s", "s1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 2, view.ItemCount)

	assert.False(t, shop.carts.View("s").Open)
}

func TestCart_Errors(t *testing.T) {
	shop := newTestShop()

	_, err := shop.carts.AddToCart("s", "ghost")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = shop.carts.UpdateQuantity("s", "b1", 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)

	_, err = shop.carts.Remove("s", "b1")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	shop := newTestShop()

	_, err := shop.carts.AddToCart("alice", "b1")
	require.NoError(t, err)

	assert.Empty(t, shop.carts.View("bob").Items)
	assert.Equal(t, int64(0), shop.carts.Subtotal("bob"))
}

func TestCart_DrainClearsOnlyOnSuccess(t *testing.T) {
	shop := newTestShop()

	err := shop.carts.Drain("s", func([]domain.CartItem, int64) error { return nil })
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = shop.carts.AddToCart("s", "c1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = shop.carts.Drain("s", func([]domain.CartItem, int64) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Len(t, shop.carts.View("s").Items, 1)

	var got int64
	err = shop.carts.Drain("s", func(items []domain.CartItem, subtotal int64) error {
		got = subtotal
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9500), got)
	assert.Empty(t, shop.carts.View("s").Items)
}

func TestCart_DrainFreezesOnlyItsSession(t *testing.T) {
	shop := newTestShop()

	_, err := shop.carts.AddToCart("s", "b1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = shop.carts.Drain("s", func([]domain.CartItem, int64) error {
		_, err := shop.carts.AddToCart("s", "b2")
		assert.ErrorIs(t, err, ErrCheckoutPending)
		_, err = shop.carts.UpdateQuantity("s", "b1", 3)
		assert.ErrorIs(t, err, ErrCheckoutPending)
		_, err = shop.carts.Remove("s", "b1")
		assert.ErrorIs(t, err, ErrCheckoutPending)
		assert.ErrorIs(t, shop.carts.Drain("s", func([]domain.CartItem, int64) error { return nil }), ErrCheckoutPending)

		view, err := shop.carts.AddToCart("other", "b2")
		assert.NoError(t, err)
		assert.Len(t, view.Items, 1)
		assert.Len(t, shop.carts.View("s").Items, 1)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	view, err := shop.carts.UpdateQuantity("s", "b1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Items[0].Quantity)
}

func TestCart_PruneIdle(t *testing.T) {
	shop := newTestShop()
	svc := shop.carts.(*cartService)

	clock := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }

	_, err := svc.AddToCart("old", "b1")
	require.NoError(t, err)

	clock = clock.Add(2 * time.Hour)
	_, err = svc.AddToCart("fresh", "b2")
	require.NoError(t, err)

	assert.Equal(t, 1, svc.PruneIdle(time.Hour))
	assert.Empty(t, svc.View("old").Items)
	assert.Len(t, svc.View("fresh").Items, 1)
}
