// Package services содержит типы, которыми обмениваются сценарии аккаунта и адаптеры.
package services

import (
	"errors"
	"time"
)

// Ошибки сессионных токенов.
var (
	ErrInvalidJWTToken    = errors.New("invalid JWT token")
	ErrExpiredJWTToken    = errors.New("JWT token has expired")
	ErrGeneratingJWTToken = errors.New("failed to generate JWT token")
)

// JWTConfig содержит настройки выпуска сессионных токенов.
type JWTConfig struct {
	SecretKey  []byte
	SessionTTL time.Duration
	Issuer     string
}

// Session - выданный пользователю сессионный токен.
type Session struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}
