package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return NewWithClient(redisLib.NewClient(&redisLib.Options{Addr: mr.Addr()}))
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	c.Set(ctx, "k1", payload{Name: "field notes", Count: 3}, time.Minute)

	var got payload
	found, err := c.Get(ctx, "k1", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "field notes", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCache_MissingKey(t *testing.T) {
	c := newTestCache(t)

	var got map[string]any
	found, err := c.Get(context.Background(), "absent", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCache_VersionBump(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), c.GetVersion(ctx, "user:1:obs:version"))

	c.IncrementVersion(ctx, "user:1:obs:version")
	c.IncrementVersion(ctx, "user:1:obs:version")
	assert.Equal(t, int64(2), c.GetVersion(ctx, "user:1:obs:version"))
}

func TestCache_NilSafe(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	c.IncrementVersion(ctx, "k")
	assert.Equal(t, int64(0), c.GetVersion(ctx, "k"))

	var got string
	found, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}
