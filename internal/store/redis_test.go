package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisKV(client, "abs:"), mr
}

func TestRedisKV_SetGet(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedisKV(t)

	require.NoError(t, kv.Set(ctx, KeyOrders, []byte(`[]`)))

	got, err := kv.Get(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	raw, err := mr.Get("abs:" + KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, `[]`, raw)
}

func TestRedisKV_MissingKey(t *testing.T) {
	kv, _ := newTestRedisKV(t)

	_, err := kv.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestRedisKV_ServerDown(t *testing.T) {
	ctx := context.Background()
	kv, mr := newTestRedisKV(t)
	mr.Close()

	_, err := kv.Get(ctx, KeyProducts)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)

	_, err = Get[[]string](ctx, kv, KeyProducts)
	assert.True(t, IsKind(err, KindUnavailable))
	assert.Error(t, kv.Ping(ctx))
}
