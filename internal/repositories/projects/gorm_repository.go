package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"gorm.io/gorm"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

func (r *GormRepository) GetByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &project, nil
}

func (r *GormRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Project, error) {
	projects := []models.Project{}

	err := r.db.WithContext(ctx).
		Preload("Files", func(db *gorm.DB) *gorm.DB {
			return db.Order("audio_files.id")
		}).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&projects).Error

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return projects, nil
}
