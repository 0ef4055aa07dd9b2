package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// Data for default implementation, keyed by username
	Users       map[string]*domain.User
	LastUserID  uuid.UUID
	CreateError error
	GetError    error
}

// Ensure MockUserStore implements store.UserStore
var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Users[user.Username]; exists {
		return store.ErrUsernameExists
	}

	// Mimic the real store: the plaintext never survives Create.
	if user.HashedPassword == "" && user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
	}
	user.Password = ""

	m.Users[user.Username] = user
	m.LastUserID = user.ID
	return nil
}

// GetByUsername implements the UserStore interface
func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	if m.GetError != nil {
		return nil, m.GetError
	}

	user, exists := m.Users[username]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	return user, nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, user := range m.Users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, store.ErrUserNotFound
}
