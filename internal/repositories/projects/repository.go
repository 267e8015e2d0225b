package projects

import (
	"context"

	"github.com/vrdaw-dev/vrdaw/internal/models"
)

type Repository interface {
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id uint) (*models.Project, error)
	// ListByOwner returns the owner's projects with their files preloaded.
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error)
}
