package repositories

import (
	"context"
	"time"

	"portfolio/internal/account/domain/entities"
)

// UserRepository определяет операции хранилища учетных данных.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByEmail(ctx context.Context, email string) (*entities.User, error)

	// UpdateProfile сохраняет поля профиля и ссылки на медиа.
	UpdateProfile(ctx context.Context, user *entities.User) (*entities.User, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error

	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error

	ClearResetToken(ctx context.Context, id string) error

	// FindByResetToken ищет пользователя с токеном tokenHash, срок которого истекает позже now.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*entities.User, error)

	// ResetPassword заменяет хеш пароля и очищает токен сброса, только если
	// у пользователя id все еще сохранен tokenHash и его срок истекает позже now.
	// Иначе entities.ErrInvalidResetToken.
	ResetPassword(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) (*entities.User, error)
}
