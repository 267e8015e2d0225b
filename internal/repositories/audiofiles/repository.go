package audiofiles

import (
	"context"

	"github.com/vrdaw-dev/vrdaw/internal/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.AudioFile) (*models.AudioFile, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.AudioFile, error)
}
