package repository

import (
	"context"
	"errors"

	"github.com/technotes/server/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist. Malformed ids
	// are reported the same way: they cannot reference any record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when a write would violate username
	// uniqueness.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store provides persistence operations over the users and notes collections.
type Store interface {
	// FindAllUsers returns every user record with the password projected out.
	FindAllUsers(ctx context.Context) ([]models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	// CreateUser inserts the record and assigns its ID.
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser replaces the record identified by user.ID.
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
	// NoteExistsForUser reports whether any note references the given user id.
	NoteExistsForUser(ctx context.Context, userID string) (bool, error)
}
