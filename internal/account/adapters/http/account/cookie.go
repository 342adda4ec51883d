package account

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"portfolio/internal/account/adapters/http/middleware"
	"portfolio/internal/account/domain/services"
)

// CookieSettings - атрибуты сессионной cookie.
type CookieSettings struct {
	Secure bool
	Domain string
}

func (s CookieSettings) set(ctx fiber.Ctx, session *services.Session) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    session.Token,
		Path:     "/",
		Domain:   s.Domain,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s CookieSettings) clear(ctx fiber.Ctx) {
	ctx.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   s.Domain,
		Expires:  time.Now(),
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
