package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/collaborations"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/users"
)

var (
	ErrInviteeNotFound = common.Errorf(common.ErrNotFound, "User not found")
	ErrNotParticipant  = common.Errorf(common.ErrForbidden, "You are not a collaborator on this project")
)

const maxRoleLen = 20

// Session is what starting a collaboration hands back. It carries no live
// state; the id is derived from the project and the caller.
type Session struct {
	ID   string
	Role string
}

type InviteResult struct {
	Invitee       *models.User
	Collaboration *models.Collaboration
}

type CollaborationService struct {
	projects *ProjectService
	users    users.Repository
	collabs  collaborations.Repository
	events   EventPublisher
	logger   logging.Logger
	now      func() time.Time
}

func NewCollaborationService(projects *ProjectService, userRepo users.Repository, collabs collaborations.Repository, events EventPublisher, logger logging.Logger) *CollaborationService {
	return &CollaborationService{
		projects: projects,
		users:    userRepo,
		collabs:  collabs,
		events:   publisherOrNop(events),
		logger:   logger,
		now:      time.Now,
	}
}

// Start records the caller as owner-collaborator of their own project.
func (s *CollaborationService) Start(ctx context.Context, projectID, callerID uint) (*Session, error) {
	if _, err := s.projects.CheckOwnership(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	c, err := s.collabs.Create(ctx, &models.Collaboration{
		ProjectID: projectID,
		UserID:    callerID,
		Role:      models.RoleOwner,
		JoinedAt:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating collaboration: %w", err)
	}

	return &Session{
		ID:   fmt.Sprintf("session_%d_%d", projectID, callerID),
		Role: c.Role,
	}, nil
}

// Invite adds username to the project with role, viewer when role is blank.
// Roles are free text.
func (s *CollaborationService) Invite(ctx context.Context, projectID, callerID uint, username, role string) (*InviteResult, error) {
	if _, err := s.projects.CheckOwnership(ctx, projectID, callerID); err != nil {
		return nil, err
	}

	role = strings.TrimSpace(role)
	if role == "" {
		role = models.RoleViewer
	}

	invitee, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInviteeNotFound
		}
		return nil, fmt.Errorf("error fetching invitee: %w", err)
	}

	if len(role) > maxRoleLen {
		return nil, common.Errorf(common.ErrBadRequest, "Role must be at most %d characters", maxRoleLen)
	}

	c, err := s.collabs.Create(ctx, &models.Collaboration{
		ProjectID: projectID,
		UserID:    invitee.ID,
		Role:      role,
		JoinedAt:  s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating collaboration: %w", err)
	}

	s.logger.Info(ctx, "collaborator invited",
		"project_id", projectID, "invitee_id", invitee.ID, "role", role)

	s.events.Publish(projectID, realtime.EventCollaboratorInvited, invitee.Username)

	return &InviteResult{Invitee: invitee, Collaboration: c}, nil
}

// IsParticipant reports whether userID owns projectID or holds any
// collaboration on it.
func (s *CollaborationService) IsParticipant(ctx context.Context, projectID, userID uint) (bool, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return false, err
	}

	if project.OwnerID == userID {
		return true, nil
	}

	ok, err := s.collabs.Exists(ctx, projectID, userID)
	if err != nil {
		return false, fmt.Errorf("error checking collaboration: %w", err)
	}

	return ok, nil
}

// Roster returns the project and its collaborations, oldest first, with the
// collaborating users loaded. Only participants may read it.
func (s *CollaborationService) Roster(ctx context.Context, projectID, callerID uint) (*models.Project, []models.Collaboration, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	collabs, err := s.collabs.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing collaborations: %w", err)
	}

	if project.OwnerID == callerID {
		return project, collabs, nil
	}

	for _, c := range collabs {
		if c.UserID == callerID {
			return project, collabs, nil
		}
	}

	return nil, nil, ErrNotParticipant
}
