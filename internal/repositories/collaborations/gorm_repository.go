package collaborations

import (
	"context"
	"fmt"

	"github.com/vrdaw-dev/vrdaw/internal/models"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, c *models.Collaboration) (*models.Collaboration, error) {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *GormRepository) ListByProject(ctx context.Context, projectID uint) ([]models.Collaboration, error) {
	collabs := []models.Collaboration{}

	if err := r.db.WithContext(ctx).Preload("User").Where("project_id = ?", projectID).Order("id").Find(&collabs).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return collabs, nil
}

func (r *GormRepository) Exists(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&models.Collaboration{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return count > 0, nil
}
