package resilience

import (
	"context"
	"fmt"
	"io"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
)

// MediaStore добавляет retry и circuit breaker к хранилищу медиа.
type MediaStore struct {
	next svc.MediaStore
	res  *ServiceResilience
}

// NewMediaStore оборачивает next.
func NewMediaStore(next svc.MediaStore, res *ServiceResilience) svc.MediaStore {
	return &MediaStore{next: next, res: res}
}

// Upload перематывает файл в начало перед каждой попыткой.
func (m *MediaStore) Upload(ctx context.Context, folder string, file *services.MediaFile) (*entities.Media, error) {
	var media *entities.Media
	err := m.res.Execute(ctx, "upload", func() error {
		if file != nil && file.Content != nil {
			if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
				return fmt.Errorf("rewinding upload: %w", err)
			}
		}
		var err error
		media, err = m.next.Upload(ctx, folder, file)
		return err
	})
	if err != nil {
		return nil, err
	}
	return media, nil
}

// Delete удаляет объект с повторами.
func (m *MediaStore) Delete(ctx context.Context, publicID string) error {
	return m.res.Execute(ctx, "delete", func() error {
		return m.next.Delete(ctx, publicID)
	})
}

// Notifier добавляет retry и circuit breaker к отправке писем.
type Notifier struct {
	next svc.Notifier
	res  *ServiceResilience
}

// NewNotifier оборачивает next.
func NewNotifier(next svc.Notifier, res *ServiceResilience) svc.Notifier {
	return &Notifier{next: next, res: res}
}

// Send отправляет письмо с повторами.
func (n *Notifier) Send(ctx context.Context, msg services.Message) error {
	return n.res.Execute(ctx, "send", func() error {
		return n.next.Send(ctx, msg)
	})
}
