package redisstore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gongxings/ai-creator/storage"
	"github.com/gongxings/ai-creator/storage/redisstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStoreTest(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redisstore.New(rdb, "test:session:"), mr
}

func TestRedisStore_SetGetRemove(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, storage.KeyAccessToken, "T1"))
	v, ok, err := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "T1", v)

	raw, err := mr.Get("test:session:token")
	require.NoError(t, err)
	require.Equal(t, "T1", raw)

	require.NoError(t, store.Remove(ctx, storage.KeyAccessToken))
	require.NoError(t, store.Remove(ctx, storage.KeyAccessToken))
	require.False(t, mr.Exists("test:session:token"))
}

func TestRedisStore_EmptyKey(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	require.ErrorIs(t, store.Set(context.Background(), "", "x"), storage.ErrEmptyKey)
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	mr.Close()

	_, _, err := store.Get(context.Background(), storage.KeyAccessToken)
	require.ErrorIs(t, err, redisstore.ErrRedisUnavailable)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := redisstore.Dial(context.Background(), mr.Addr(), "", 0, "p")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), storage.KeyRefreshToken, "R1"))
	require.True(t, mr.Exists("p:refreshToken"))
}
