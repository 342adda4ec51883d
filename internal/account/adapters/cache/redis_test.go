package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/account/adapters/cache"
	"portfolio/pkg/logger"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	return srv, client
}

func TestRedisCache(t *testing.T) {
	ctx := logger.NewContext(context.Background(), logger.NewNop())

	t.Run("set и get с префиксом", func(t *testing.T) {
		srv, client := setup(t)
		c := cache.NewRedisCache(client, "portfolio:", time.Minute)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "owner", `{"id":"1"}`, 0))

		got, err := c.Get(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"1"}`, got)

		assert.True(t, srv.Exists("portfolio:owner"))
		assert.Equal(t, time.Minute, srv.TTL("portfolio:owner"))
	})

	t.Run("явный ttl", func(t *testing.T) {
		srv, client := setup(t)
		c := cache.NewRedisCache(client, "", time.Minute)

		require.NoError(t, c.Set(ctx, "k", "v", 5*time.Second))
		assert.Equal(t, 5*time.Second, srv.TTL("k"))

		srv.FastForward(6 * time.Second)
		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("отсутствующий ключ", func(t *testing.T) {
		_, client := setup(t)
		c := cache.NewRedisCache(client, "", time.Minute)

		got, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		srv, client := setup(t)
		c := cache.NewRedisCache(client, "p:", time.Minute)

		require.NoError(t, c.Set(ctx, "k", "v", 0))
		require.NoError(t, c.Delete(ctx, "k"))
		assert.False(t, srv.Exists("p:k"))
	})

	t.Run("сервер недоступен", func(t *testing.T) {
		srv, client := setup(t)
		c := cache.NewRedisCache(client, "", time.Minute)
		srv.Close()

		_, err := c.Get(ctx, "k")
		require.Error(t, err)
		require.Error(t, c.Set(ctx, "k", "v", 0))
		require.Error(t, c.Delete(ctx, "k"))
	})
}
