package audiofiles

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

func (r *GormRepository) Create(ctx context.Context, file *models.AudioFile) (*models.AudioFile, error) {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *GormRepository) ListByProject(ctx context.Context, projectID uint) ([]models.AudioFile, error) {
	files := []models.AudioFile{}

	if err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return files, nil
}
