package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/technotes/server/internal/models"
)

// MemoryRepository is an in-memory Store used in tests. Like the Mongo
// implementation it enforces username uniqueness on write.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	notes map[string]models.Note
}

// NewMemoryRepository initializes an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users: make(map[string]models.User),
		notes: make(map[string]models.Note),
	}
}

func (r *MemoryRepository) FindAllUsers(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		u.Password = ""
		users = append(users, u)
	}
	return users, nil
}

func (r *MemoryRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	user := u
	return &user, nil
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}

	user.ID = primitive.NewObjectID()
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := user.ID.Hex()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	for _, u := range r.users {
		if u.Username == user.Username && u.ID != user.ID {
			return ErrDuplicateUsername
		}
	}

	r.users[id] = *user
	return nil
}

func (r *MemoryRepository) DeleteUser(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) NoteExistsForUser(ctx context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notes {
		if n.User.Hex() == userID {
			return true, nil
		}
	}
	return false, nil
}

// AddNote stores a note record. Only tests use this; the service itself
// never writes notes.
func (r *MemoryRepository) AddNote(note models.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if note.ID.IsZero() {
		note.ID = primitive.NewObjectID()
	}
	r.notes[note.ID.Hex()] = note
}
