package api

import (
	"context"
)

// UpdatePasswordInput - смена пароля владельцем сессии.
type UpdatePasswordInput struct {
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// ResetPasswordInput - сброс пароля по токену из письма.
type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// PasswordUseCase определяет смену и сброс пароля.
type PasswordUseCase interface {
	UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) error

	// ForgotPassword отправляет письмо со ссылкой сброса и возвращает адрес получателя.
	ForgotPassword(ctx context.Context, email string) (string, error)

	ResetPassword(ctx context.Context, input ResetPasswordInput) (*AuthResult, error)
}
