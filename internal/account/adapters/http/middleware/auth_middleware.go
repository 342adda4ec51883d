package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/ports/api"
	"portfolio/pkg/logger"
)

const (
	// CookieName - имя сессионной cookie.
	CookieName = "token"

	localsUserKey = "user"
)

// NewAuthMiddleware пропускает запрос дальше, только если сессионный токен
// из cookie или заголовка Authorization разрешается в пользователя.
func NewAuthMiddleware(accounts api.AccountUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()

		user, err := accounts.Authenticate(requestCtx, sessionToken(ctx))
		if err != nil {
			logger.Log(requestCtx).Debug(requestCtx, "auth middleware rejected request", zap.Error(err))
			return err
		}

		ctx.Locals(localsUserKey, user)
		return ctx.Next()
	}
}

// NewOptionalAuthMiddleware сохраняет пользователя, если токен действителен, и
// пропускает запрос в любом случае.
func NewOptionalAuthMiddleware(accounts api.AccountUseCase) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		token := sessionToken(ctx)
		if token == "" {
			return ctx.Next()
		}

		if user, err := accounts.Authenticate(ctx.Context(), token); err == nil {
			ctx.Locals(localsUserKey, user)
		}
		return ctx.Next()
	}
}

// CurrentUser возвращает пользователя, сохраненного NewAuthMiddleware.
func CurrentUser(ctx fiber.Ctx) (*entities.User, error) {
	user, ok := ctx.Locals(localsUserKey).(*entities.User)
	if !ok || user == nil {
		return nil, entities.ErrUnauthenticated
	}
	return user, nil
}

func sessionToken(ctx fiber.Ctx) string {
	if token := ctx.Cookies(CookieName); token != "" {
		return token
	}

	parts := strings.SplitN(strings.TrimSpace(ctx.Get(fiber.HeaderAuthorization)), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
