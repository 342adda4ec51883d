package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/pkg/logger"
)

// Сообщения ответов, не связанные с доменными ошибками.
const (
	MessageInternalServerError = "Internal Server Error"
	MessageRouteNotFound       = "Route Not Found"
)

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandler сопоставляет вид ошибки статусу ответа. Сообщение клиенту берется
// только из entities.AccountError или fiber.Error, остальные ошибки дают 500.
func ErrorHandler(ctx fiber.Ctx, err error) error {
	status, message := classify(err)

	requestCtx := ctx.Context()
	if status >= fiber.StatusInternalServerError {
		logger.Log(requestCtx).Error(requestCtx, "request failed", zap.Int("status", status), zap.Error(err))
	}

	return writeError(ctx, status, message)
}

func classify(err error) (int, string) {
	if errors.Is(err, entities.ErrUnauthenticated) {
		return fiber.StatusUnauthorized, entities.ErrUnauthenticated.Message
	}

	var accountErr *entities.AccountError
	if errors.As(err, &accountErr) {
		switch {
		case errors.Is(accountErr.Kind, entities.ErrValidation), errors.Is(accountErr.Kind, entities.ErrAuth):
			return fiber.StatusBadRequest, accountErr.Message
		case errors.Is(accountErr.Kind, entities.ErrNotFound):
			return fiber.StatusNotFound, accountErr.Message
		default:
			return fiber.StatusInternalServerError, accountErr.Message
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return fiberErr.Code, fiberErr.Message
	}

	return fiber.StatusInternalServerError, MessageInternalServerError
}

func writeError(ctx fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(ErrorResponse{Success: false, Message: message})
}

// NotFound отвечает 404 на неизвестные маршруты.
func NotFound(ctx fiber.Ctx) error {
	return writeError(ctx, fiber.StatusNotFound, MessageRouteNotFound)
}
