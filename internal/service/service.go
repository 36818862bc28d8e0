package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/technotes/server/internal/models"
	"github.com/technotes/server/internal/repository"
)

// Service handles business logic for user records
type Service struct {
	store      repository.Store
	log        *logrus.Logger
	bcryptCost int
}

// NewService initializes a new service
func NewService(store repository.Store, log *logrus.Logger, bcryptCost int) *Service {
	return &Service{store: store, log: log, bcryptCost: bcryptCost}
}

// ListUsers returns all user records without password digests.
// An empty collection is reported as ErrNoUsers.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.FindAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}
	return users, nil
}

// CreateUser validates the payload, hashes the password and persists a new
// user record with active set to true.
func (s *Service) CreateUser(ctx context.Context, username, password string, roles []string) (*models.User, error) {
	if username == "" || password == "" || len(roles) == 0 {
		return nil, ErrAllFieldsRequired
	}

	// Check for duplicates before hashing; the unique index on username
	// catches the race between this check and the insert.
	_, err := s.store.FindUserByUsername(ctx, username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Roles:    roles,
		Active:   true,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Infof("User created: %s", user.Username)
	return user, nil
}

// UpdateUser overwrites username, roles and active on an existing record.
// Password is optional: when empty the stored digest is kept, otherwise it
// is rehashed.
func (s *Service) UpdateUser(ctx context.Context, id, username, password string, roles []string, active *bool) (*models.User, error) {
	if id == "" || username == "" || len(roles) == 0 || active == nil {
		return nil, ErrAllFieldsRequired
	}

	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	dup, err := s.store.FindUserByUsername(ctx, username)
	if err == nil && dup.ID != user.ID {
		return nil, ErrDuplicateUsername
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate username: %w", err)
	}

	user.Username = username
	user.Roles = roles
	user.Active = *active

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = string(hash)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.log.Infof("User updated: %s", user.Username)
	return user, nil
}

// DeleteUser permanently removes a user record unless notes still
// reference it. The deleted record is returned for the response message.
func (s *Service) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserIDRequired
	}

	// The notes check runs before the existence check, matching the
	// endpoint's observable ordering.
	hasNotes, err := s.store.NoteExistsForUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check notes: %w", err)
	}
	if hasNotes {
		return nil, ErrUserHasNotes
	}

	user, err := s.store.FindUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Infof("User deleted: %s", user.Username)
	return user, nil
}
