package account

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"portfolio/internal/account/adapters/http/dto"
	"portfolio/internal/account/adapters/http/middleware"
	"portfolio/internal/account/ports/api"
	"portfolio/pkg/logger"
)

const (
	LogHandlerUpdatePassword = "account handler: update password"
	LogHandlerForgotPassword = "account handler: forgot password"
	LogHandlerResetPassword  = "account handler: reset password"

	MsgPasswordUpdated = "Password Updated Successfully!"
	MsgPasswordReset   = "Reset Password Successfully!"
	msgEmailSentFormat = "Email Sent to %s Successfully!"
)

// UpdatePassword меняет пароль владельца сессии.
func (h *Handler) UpdatePassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()

	current, err := middleware.CurrentUser(ctx)
	if err != nil {
		return err
	}
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerUpdatePassword, zap.String("userID", current.ID))

	var req dto.UpdatePasswordRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	if err := h.passwords.UpdatePassword(requestCtx, current.ID, api.UpdatePasswordInput{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	}); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.Response{Success: true, Message: MsgPasswordUpdated})
}

// ForgotPassword отправляет письмо со ссылкой сброса.
func (h *Handler) ForgotPassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerForgotPassword)

	var req dto.ForgotPasswordRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	email, err := h.passwords.ForgotPassword(requestCtx, strings.TrimSpace(req.Email))
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.Response{
		Success: true,
		Message: fmt.Sprintf(msgEmailSentFormat, email),
	})
}

// ResetPassword задает новый пароль по токену из пути и открывает сессию.
func (h *Handler) ResetPassword(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	logger.Log(requestCtx).Debug(requestCtx, LogHandlerResetPassword)

	var req dto.ResetPasswordRequest
	if err := bindJSON(ctx, &req); err != nil {
		return err
	}

	result, err := h.passwords.ResetPassword(requestCtx, api.ResetPasswordInput{
		Token:           ctx.Params("token"),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	h.cookies.set(ctx, result.Session)
	return ctx.Status(fiber.StatusOK).JSON(dto.Response{
		Success: true,
		Message: MsgPasswordReset,
		User:    result.User,
		Token:   result.Session.Token,
	})
}
