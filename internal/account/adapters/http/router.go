// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"

	"portfolio/internal/account/adapters/http/account"
	"portfolio/internal/account/adapters/http/middleware"
	"portfolio/internal/account/ports/api"
)

// RouterDeps - зависимости маршрутизатора.
type RouterDeps struct {
	Accounts  api.AccountUseCase
	Passwords api.PasswordUseCase
	Health    account.Pinger
	Cookies   account.CookieSettings
	// AllowedOrigins - источники панели и сайта портфолио для CORS с cookie.
	AllowedOrigins []string
}

// NewApp создает fiber-приложение с общим обработчиком ошибок.
func NewApp(cfg fiber.Config) *fiber.App {
	cfg.ErrorHandler = middleware.ErrorHandler
	return fiber.New(cfg)
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps RouterDeps) {
	handler := account.NewHandler(deps.Accounts, deps.Passwords, deps.Cookies)
	requireAuth := middleware.NewAuthMiddleware(deps.Accounts)

	// Middleware для всех запросов.
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	if len(deps.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete},
			AllowCredentials: true,
		}))
	}

	app.Get("/healthz", account.NewHealthHandler(deps.Health))

	userRoutes := app.Group("/api/v1/user")

	// Публичные маршруты.
	userRoutes.Post("/register", handler.Register)
	userRoutes.Post("/login", handler.Login)
	userRoutes.Get("/logout", middleware.NewOptionalAuthMiddleware(deps.Accounts), handler.Logout)
	userRoutes.Get("/portfolio-owner", handler.GetPortfolioOwner)
	userRoutes.Post("/password/forgot", handler.ForgotPassword)
	userRoutes.Put("/password/reset/:token", handler.ResetPassword)

	// Защищенные маршруты.
	userRoutes.Get("/me", requireAuth, handler.GetUser)
	userRoutes.Put("/profile", requireAuth, handler.UpdateProfile)
	userRoutes.Put("/password", requireAuth, handler.UpdatePassword)

	// Обработчик для несуществующих маршрутов.
	app.Use(middleware.NotFound)
}
