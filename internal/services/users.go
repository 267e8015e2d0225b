// Package services holds the business rules behind the HTTP handlers:
// registration and login, project ownership, file ingest and collaboration.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vrdaw-dev/vrdaw/internal/auth"
	"github.com/vrdaw-dev/vrdaw/internal/common"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/models"
	"github.com/vrdaw-dev/vrdaw/internal/repositories/users"
)

var (
	ErrUsernameTaken      = common.Errorf(common.ErrConflict, "Username already taken")
	ErrEmailTaken         = common.Errorf(common.ErrConflict, "Email already registered")
	ErrInvalidCredentials = common.Errorf(common.ErrUnauthorized, "Invalid username or password")
)

type RegisterInput struct {
	Username string
	Password string
	Email    string
}

// UserService is the credential store: it owns user records and checks
// passwords, and mints access tokens on successful login.
type UserService struct {
	users  users.Repository
	hasher *auth.PasswordHasher
	issuer *auth.Issuer
	logger logging.Logger
}

func NewUserService(repo users.Repository, hasher *auth.PasswordHasher, issuer *auth.Issuer, logger logging.Logger) *UserService {
	return &UserService{users: repo, hasher: hasher, issuer: issuer, logger: logger}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return nil, common.Errorf(common.ErrBadRequest, "Username, password and email are required")
	}

	if len(username) > 80 {
		return nil, common.Errorf(common.ErrBadRequest, "Username must be at most 80 characters")
	}

	if err := s.ensureFree(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})

	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, common.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	return user, nil
}

func (s *UserService) ensureFree(ctx context.Context, username, email string) error {
	_, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("error checking username: %w", err)
	}

	_, err = s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("error checking email: %w", err)
	}

	return nil
}

// Verify returns the user only if password matches. Unknown users and wrong
// passwords produce the same error.
func (s *UserService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	ok, err := s.hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error comparing password: %w", err)
	}

	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Login verifies the credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return "", err
	}

	return token, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
