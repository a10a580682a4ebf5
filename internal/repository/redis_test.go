package repository

import (
	"context"
	"testing"

	"yoladmin/client"
	"yoladmin/pkg/constraints"
	"yoladmin/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStorage(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	s := NewRedisStorage(rdb, "ops")

	_, ok, err := s.Load(ctx, constraints.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, constraints.KeyAccessToken, "a1"))
	got, err := mr.Get("yoladmin:session:ops:access_token")
	require.NoError(t, err)
	assert.Equal(t, "a1", got)

	val, ok, err := s.Load(ctx, constraints.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a1", val)

	require.NoError(t, s.Remove(ctx, constraints.KeyAccessToken, constraints.KeyRefreshToken))
	assert.False(t, mr.Exists("yoladmin:session:ops:access_token"))
	assert.NoError(t, s.Remove(ctx))
}

func TestRedisStorageNamespaces(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)
	a := NewRedisStorage(rdb, "")
	b := NewRedisStorage(rdb, "second")

	require.NoError(t, a.Save(ctx, constraints.KeySidebarOpen, "false"))
	_, ok, err := b.Load(ctx, constraints.KeySidebarOpen)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStorageBacksSession(t *testing.T) {
	ctx := context.Background()
	_, rdb := newRedis(t)

	first, err := client.NewSessionStore(ctx, NewRedisStorage(rdb, "ops"))
	require.NoError(t, err)
	require.NoError(t, first.SetTokens(ctx, "a1", "r1"))

	second, err := client.NewSessionStore(ctx, NewRedisStorage(rdb, "ops"))
	require.NoError(t, err)
	access, ok := second.AccessToken()
	assert.True(t, ok)
	assert.Equal(t, "a1", access)
	refresh, _ := second.RefreshToken()
	assert.Equal(t, "r1", refresh)
}

func TestRedisStorageUnavailable(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	_, _, err := NewRedisStorage(rdb, "ops").Load(context.Background(), constraints.KeyAccessToken)
	assert.Error(t, err)
}
