// Package account содержит HTTP обработчики аккаунта владельца портфолио.
package account

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"portfolio/internal/account/adapters/http/dto"
	"portfolio/internal/account/adapters/http/middleware"
	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/ports/api"
	"portfolio/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LogHandlerRegister       = "account handler: register"
	LogHandlerLogin          = "account handler: login"
	LogHandlerLogout         = "account handler: logout"
	LogHandlerGetUser        = "account handler: get user"
	LogHandlerPortfolioOwner = "account handler: portfolio owner"
	LogHandlerUpdateProfile  = "account handler: update profile"

	MsgUserRegistered = "User Registered Successfully"
	MsgLoggedIn       = "Logged In Successfully!"
	MsgLoggedOut      = "Logged Out!"
	MsgProfileUpdated = "Profile Updated!"
)

// ErrInvalidRequest - тело запроса не удалось разобрать.
var ErrInvalidRequest = entities.NewError(entities.ErrValidation, "Invalid Request Body")

// Handler содержит HTTP обработчики аккаунта.
type Handler struct {
	accounts  api.AccountUseCase
	passwords api.PasswordUseCase
	cookies   CookieSettings
}

// NewHandler создает новый экземпляр обработчика.
func NewHandler(accounts api.AccountUseCase, passwords api.PasswordUseCase, cookies CookieSettings) *Handler {
	return &Handler{
		accounts:  accounts,
		passwords: passwords,
		cookies:   cookies,
	}
}

// Register принимает multipart-форму с полями профиля, паролем и файлами avatar и resume.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerRegister)

	form, err := ctx.MultipartForm()
	if err != nil {
		return fmt.Errorf("reading multipart form: %w", entities.ErrFilesRequired)
	}

	files := newFormFiles(form)
	defer files.Close(requestCtx)

	avatar, err := files.Open(fieldAvatar)
	if err != nil {
		return err
	}
	resume, err := files.Open(fieldResume)
	if err != nil {
		return err
	}
	if avatar == nil || resume == nil {
		return entities.ErrFilesRequired
	}

	result, err := h.accounts.Register(requestCtx, api.RegisterInput{
		Profile:  profileFromForm(form),
		Password: formValue(form, fieldPassword),
		Avatar:   avatar,
		Resume:   resume,
	})
	if err != nil {
		return err
	}

	h.cookies.set(ctx, result.Session)
	return ctx.Status(fiber.StatusCreated).JSON(dto.Response{
		Success: true,
		Message: MsgUserRegistered,
		User:    result.User,
		Token:   result.Session.Token,
	})
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	result, err := h.accounts.Login(requestCtx, strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return err
	}

	h.cookies.set(ctx, result.Session)
	return ctx.Status(fiber.StatusOK).JSON(dto.Response{
		Success: true,
		Message: MsgLoggedIn,
		User:    result.User,
		Token:   result.Session.Token,
	})
}

// Logout очищает сессионную cookie. Запрос без действующей сессии тоже успешен.
func (h *Handler) Logout(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerLogout)

	var userID string
	if user, err := middleware.CurrentUser(ctx); err == nil {
		userID = user.ID
	}
	if err := h.accounts.Logout(requestCtx, userID); err != nil {
		return err
	}

	h.cookies.clear(ctx)
	return ctx.Status(fiber.StatusOK).JSON(dto.Response{Success: true, Message: MsgLoggedOut})
}

// GetUser возвращает пользователя текущей сессии.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	current, err := middleware.CurrentUser(ctx)
	if err != nil {
		return err
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerGetUser, zap.String("userID", current.ID))

	user, err := h.accounts.GetUser(requestCtx, current.ID)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.Response{Success: true, User: user})
}

// GetPortfolioOwner возвращает публичный профиль владельца портфолио.
func (h *Handler) GetPortfolioOwner(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerPortfolioOwner)

	user, err := h.accounts.GetPortfolioOwner(requestCtx)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.Response{Success: true, User: user})
}

// UpdateProfile принимает multipart-форму с необязательными файлами или JSON без файлов.
func (h *Handler) UpdateProfile(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	current, err := middleware.CurrentUser(ctx)
	if err != nil {
		return err
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUpdateProfile, zap.String("userID", current.ID))

	var input api.UpdateProfileInput

	if isMultipart(ctx) {
		form, err := ctx.MultipartForm()
		if err != nil {
			return fmt.Errorf("reading multipart form: %w", ErrInvalidRequest)
		}

		files := newFormFiles(form)
		defer files.Close(requestCtx)

		if input.Avatar, err = files.Open(fieldAvatar); err != nil {
			return err
		}
		if input.Resume, err = files.Open(fieldResume); err != nil {
			return err
		}
		input.Fields = profileUpdateFromForm(form)
	} else if len(ctx.Body()) > 0 {
		var req dto.ProfileRequest
		if err := bindJSON(ctx, &req); err != nil {
			return err
		}
		input.Fields = req.ToUpdate()
	}

	user, err := h.accounts.UpdateProfile(requestCtx, current.ID, input)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.Response{
		Success: true,
		Message: MsgProfileUpdated,
		User:    user,
	})
}

func bindJSON(ctx fiber.Ctx, out any) error {
	if err := ctx.Bind().JSON(out); err != nil {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Debug(requestCtx, "binding JSON failed", zap.Error(err))
		return fmt.Errorf("binding JSON: %w", ErrInvalidRequest)
	}
	return nil
}

func isMultipart(ctx fiber.Ctx) bool {
	return strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}
