// Package cache реализует кэш на Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"portfolio/internal/account/ports/cache"
	"portfolio/pkg/logger"
)

const (
	methodGet    = "get"
	methodSet    = "set"
	methodDelete = "delete"

	errFailedToGet    = "failed to get value from redis"
	errFailedToSet    = "failed to set value in redis"
	errFailedToDelete = "failed to delete value from redis"
	errFailedToClose  = "failed to close redis connection"
)

// RedisCache реализует cache.Cache. Ключи получают общий префикс.
type RedisCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache оборачивает клиент Redis.
func NewRedisCache(client redis.UniversalClient, prefix string, defaultTTL time.Duration) cache.Cache {
	return &RedisCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *RedisCache) key(key string) string {
	return c.prefix + key
}

// Get возвращает значение или пустую строку, если ключа нет.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGet), zap.String("key", key))

	value, err := c.client.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		log.Error(ctx, errFailedToGet, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errFailedToGet, err)
	}

	return value, nil
}

// Set сохраняет значение. Нулевой ttl заменяется на значение по умолчанию.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	log := logger.Log(ctx).With(zap.String("method", methodSet), zap.String("key", key))

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		log.Error(ctx, errFailedToSet, zap.Error(err))
		return fmt.Errorf("%s: %w", errFailedToSet, err)
	}

	return nil
}

// Delete удаляет ключ.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("key", key))

	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		log.Error(ctx, errFailedToDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", errFailedToDelete, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (c *RedisCache) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", errFailedToClose, err)
	}
	return nil
}
