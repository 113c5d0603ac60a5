package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

func TestMemory_RoundTrip(t *testing.T) {
	c := NewMemory(time.Minute, nil)
	ctx := context.Background()

	var got snapshot
	ok, err := c.Get(ctx, "snap", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "snap", snapshot{Names: []string{"a"}, Total: 1}, 0))
	ok, err = c.Get(ctx, "snap", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, got.Total)

	require.NoError(t, c.Delete(ctx, "snap"))
	ok, err = c.Get(ctx, "snap", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemory_GetReturnsPrivateCopy(t *testing.T) {
	c := NewMemory(time.Minute, nil)
	ctx := context.Background()
	total := 1
	require.NoError(t, c.Set(ctx, "snap", []*snapshot{{Names: []string{"a"}, Total: total}}, 0))

	var first []*snapshot
	ok, err := c.Get(ctx, "snap", &first)
	require.NoError(t, err)
	require.True(t, ok)
	first[0].Names[0] = "changed"
	first[0].Total = 99

	var second []*snapshot
	ok, err = c.Get(ctx, "snap", &second)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, second[0].Names)
	assert.Equal(t, 1, second[0].Total)
}

func TestMemory_TypeMismatch(t *testing.T) {
	c := NewMemory(time.Minute, nil)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", 42, 0))

	var s snapshot
	ok, err := c.Get(ctx, "k", &s)
	assert.Error(t, err)
	assert.False(t, ok)
}

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, "crm", time.Minute, nil), mr
}

func TestRedis_RoundTripWithPrefixAndTTL(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "snap", snapshot{Names: []string{"a", "b"}, Total: 2}, 0))
	assert.True(t, mr.Exists("crm:snap"))
	assert.Equal(t, time.Minute, mr.TTL("crm:snap"))

	var got snapshot
	ok, err := c.Get(ctx, "snap", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Names)

	mr.FastForward(2 * time.Minute)
	ok, err = c.Get(ctx, "snap", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_Delete(t *testing.T) {
	c, mr := newRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("crm:a"))
	assert.False(t, mr.Exists("crm:b"))
}

func TestRedis_ServerDownReturnsError(t *testing.T) {
	c, mr := newRedis(t)
	mr.Close()

	var got snapshot
	ok, err := c.Get(context.Background(), "snap", &got)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), RedisConfig{URL: "redis://" + mr.Addr() + "/0", PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), RedisConfig{URL: "not a url"})
	assert.Error(t, err)
}
