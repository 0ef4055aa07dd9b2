package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every operation is a single-record read or write; no cross-record atomicity
// is required, so implementations do not need transaction support.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByOwner retrieves all tasks owned by the given username,
	// ordered by creation time descending (most recent first).
	// Returns an empty slice when the owner has no tasks.
	ListByOwner(ctx context.Context, owner string) ([]*domain.Task, error)

	// Update persists the task's mutable fields (name, description, status,
	// due date) along with the refreshed updated timestamp.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
