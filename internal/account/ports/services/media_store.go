package services

import (
	"context"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
)

// MediaStore хранит аватары и резюме.
type MediaStore interface {
	Upload(ctx context.Context, folder string, file *services.MediaFile) (*entities.Media, error)

	Delete(ctx context.Context, publicID string) error
}
