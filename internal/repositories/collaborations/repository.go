package collaborations

import (
	"context"

	"github.com/vrdaw-dev/vrdaw/internal/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Collaboration) (*models.Collaboration, error)
	ListByProject(ctx context.Context, projectID uint) ([]models.Collaboration, error)
	Exists(ctx context.Context, projectID, userID uint) (bool, error)
}
