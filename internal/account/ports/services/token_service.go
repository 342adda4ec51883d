package services

import (
	"context"

	"portfolio/internal/account/domain/services"
)

// TokenService выпускает и проверяет сессионные токены.
type TokenService interface {
	GenerateSessionToken(ctx context.Context, userID string) (*services.Session, error)

	// ValidateSessionToken возвращает идентификатор пользователя из токена.
	ValidateSessionToken(ctx context.Context, token string) (string, error)
}

// ResetTokenGenerator создает одноразовые токены сброса пароля.
type ResetTokenGenerator interface {
	Generate(ctx context.Context) (*services.ResetToken, error)

	Hash(raw string) string
}
