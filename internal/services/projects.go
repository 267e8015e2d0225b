package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/projects"
)

var (
	ErrProjectNotFound  = common.Errorf(common.ErrNotFound, "Project not found")
	ErrNotProjectOwner  = common.Errorf(common.ErrForbidden, "You do not own this project")
	errProjectNameEmpty = common.Errorf(common.ErrBadRequest, "Project name is required")
)

const maxProjectNameLen = 100

type ProjectService struct {
	projects projects.Repository
}

func NewProjectService(repo projects.Repository) *ProjectService {
	return &ProjectService{projects: repo}
}

func (s *ProjectService) Create(ctx context.Context, ownerID uint, name string) (*models.Project, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, errProjectNameEmpty
	}

	if len(name) > maxProjectNameLen {
		return nil, common.Errorf(common.ErrBadRequest, "Project name must be at most %d characters", maxProjectNameLen)
	}

	project, err := s.projects.Create(ctx, &models.Project{Name: name, OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	return project, nil
}

// ListForUser returns every project owned by userID with its files.
func (s *ProjectService) ListForUser(ctx context.Context, userID uint) ([]models.Project, error) {
	list, err := s.projects.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}

	return list, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID uint) (*models.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("error fetching project: %w", err)
	}

	return project, nil
}

// CheckOwnership fails with not-found when the project does not exist and
// with forbidden when someone else owns it.
func (s *ProjectService) CheckOwnership(ctx context.Context, projectID, userID uint) (*models.Project, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.OwnerID != userID {
		return nil, ErrNotProjectOwner
	}

	return project, nil
}
