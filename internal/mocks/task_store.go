package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, task *domain.Task) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByOwnerFn func(ctx context.Context, owner string) ([]*domain.Task, error)
	UpdateFn      func(ctx context.Context, task *domain.Task) error
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task

	// Forced errors for the default implementation
	CreateError error
	ListError   error
	UpdateError error
	DeleteError error
}

// Ensure MockTaskStore implements store.TaskStore
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}

	// Return a copy so handler mutations don't leak into the store
	// before Update is called.
	copied := *task
	return &copied, nil
}

// ListByOwner implements the TaskStore interface.
// Matches the real store's ordering: creation time descending.
func (m *MockTaskStore) ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, owner)
	}

	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range m.Tasks {
		if task.Owner == owner {
			copied := *task
			tasks = append(tasks, &copied)
		}
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	if m.UpdateError != nil {
		return m.UpdateError
	}

	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[task.ID]; !exists {
		return store.ErrTaskNotFound
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tasks[id]; !exists {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, id)
	return nil
}
