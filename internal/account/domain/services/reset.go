package services

import "time"

// ResetToken - токен сброса пароля. Raw уходит пользователю письмом,
// в хранилище сохраняется только Hash.
type ResetToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}
