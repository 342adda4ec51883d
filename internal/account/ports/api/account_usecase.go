package api

import (
	"context"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
)

// RegisterInput - данные регистрации.
type RegisterInput struct {
	Profile  entities.Profile
	Password string
	Avatar   *services.MediaFile
	Resume   *services.MediaFile
}

// UpdateProfileInput - частичное обновление профиля с необязательной заменой файлов.
type UpdateProfileInput struct {
	Fields entities.ProfileUpdate
	Avatar *services.MediaFile
	Resume *services.MediaFile
}

// AuthResult - пользователь вместе с выданной сессией.
type AuthResult struct {
	User    *entities.User
	Session *services.Session
}

// AccountUseCase определяет операции с аккаунтом владельца портфолио.
type AccountUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)

	Login(ctx context.Context, email, password string) (*AuthResult, error)

	Logout(ctx context.Context, userID string) error

	GetUser(ctx context.Context, userID string) (*entities.User, error)

	GetPortfolioOwner(ctx context.Context) (*entities.User, error)

	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entities.User, error)

	// Authenticate разрешает сессионный токен в пользователя.
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}
