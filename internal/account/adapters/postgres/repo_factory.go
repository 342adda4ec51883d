package postgres

import (
	"context"

	"portfolio/internal/account/ports/repositories"
)

// RepositoryFactory собирает репозитории поверх одного пула.
type RepositoryFactory struct {
	pool     PgxPoolInterface
	userRepo repositories.UserRepository
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		pool:     pool,
		userRepo: NewUserRepository(pool),
	}
}

// UserRepository возвращает репозиторий пользователей.
func (f *RepositoryFactory) UserRepository() repositories.UserRepository {
	return f.userRepo
}

// Ping проверяет доступность базы данных.
func (f *RepositoryFactory) Ping(ctx context.Context) error {
	return f.pool.Ping(ctx)
}
