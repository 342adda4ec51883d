// Package redis создает клиент go-redis и проверяет соединение.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"portfolio/pkg/logger"
)

const (
	msgConnecting = "connecting to Redis"
	msgConnected  = "successfully connected to Redis"

	errCtxPing = "failed to connect to Redis"
)

// NewClient создает клиент Redis и выполняет PING.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	log := logger.Log(ctx).With(zap.String("address", cfg.Addr()), zap.Int("db", cfg.DB))
	log.Info(ctx, msgConnecting)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		log.Error(ctx, errCtxPing, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxPing, err)
	}

	log.Info(ctx, msgConnected)
	return rdb, nil
}
