package services

import (
	"context"

	"portfolio/internal/account/domain/services"
)

// Notifier доставляет письма пользователям.
type Notifier interface {
	Send(ctx context.Context, msg services.Message) error
}

// MessageRenderer собирает письмо из именованного шаблона.
type MessageRenderer interface {
	Render(template string, data any) (*services.Message, error)
}
