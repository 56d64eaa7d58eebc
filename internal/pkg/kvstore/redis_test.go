package kvstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedisStore connects to REDIS_TEST_ADDR and skips the test when it is unset.
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	store, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore_IncrStartsWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)
	key := "ratelimit:test:" + t.Name()
	t.Cleanup(func() { store.client.Del(ctx, key) })

	count, err := store.Incr(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = store.Incr(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	ttl, err := store.client.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestRedisStore_IncrRepairsCounterWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)
	key := "ratelimit:test:" + t.Name()
	t.Cleanup(func() { store.client.Del(ctx, key) })

	require.NoError(t, store.client.Set(ctx, key, 7, 0).Err())

	count, err := store.Incr(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(8), count)

	ttl, err := store.client.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0), "a stuck counter gets its window back")
}
