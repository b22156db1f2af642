package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, time.Minute)
}

func TestFetchJSONPopulatesAndServesCached(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	key, err := c.BuildKey(ctx, "test", "summary")
	require.NoError(t, err)

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return map[string]int{"value": 42}, nil
	}

	var first map[string]int
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 42, first["value"])
	require.Equal(t, 1, loads)

	var second map[string]int
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 42, second["value"])
	require.Equal(t, 1, loads, "second fetch should hit the cache")
}

func TestBumpInvalidatesKeys(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	before, err := c.BuildKey(ctx, "test", "summary")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx))
	after, err := c.BuildKey(ctx, "test", "summary")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	key, err := c.BuildKey(ctx, "test", "summary")
	require.NoError(t, err)

	loads := 0
	var out map[string]int
	loader := func(context.Context) (any, error) {
		loads++
		return map[string]int{"value": 7}, nil
	}
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 2, loads)
	require.Equal(t, 7, out["value"])

	require.NoError(t, c.Bump(ctx))
}
