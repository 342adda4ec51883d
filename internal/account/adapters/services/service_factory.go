// Package services содержит реализации хеширования паролей и выпуска токенов.
package services

import (
	"time"

	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
)

// ServiceFactory собирает сервисы паролей и токенов.
type ServiceFactory struct {
	passwordService svc.PasswordService
	tokenService    svc.TokenService
	resetTokens     svc.ResetTokenGenerator
}

// NewServiceFactory создает фабрику сервисов.
func NewServiceFactory(jwtConfig services.JWTConfig, bcryptCost int, resetTTL time.Duration) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(jwtConfig),
		resetTokens:     NewResetTokens(resetTTL, time.Now),
	}
}

// PasswordService возвращает сервис паролей.
func (f *ServiceFactory) PasswordService() svc.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис сессионных токенов.
func (f *ServiceFactory) TokenService() svc.TokenService {
	return f.tokenService
}

// ResetTokens возвращает генератор токенов сброса пароля.
func (f *ServiceFactory) ResetTokens() svc.ResetTokenGenerator {
	return f.resetTokens
}
