package account

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"portfolio/internal/account/adapters/http/dto"
	"portfolio/pkg/logger"
)

const healthTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler отвечает 200, пока pinger доступен, иначе 503.
func NewHealthHandler(pinger Pinger) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx, cancel := context.WithTimeout(ctx.Context(), healthTimeout)
		defer cancel()

		if err := pinger.Ping(requestCtx); err != nil {
			logger.Log(requestCtx).Warn(requestCtx, "health check failed", zap.Error(err))
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "unavailable"})
		}
		return ctx.Status(fiber.StatusOK).JSON(dto.HealthResponse{Status: "ok"})
	}
}
