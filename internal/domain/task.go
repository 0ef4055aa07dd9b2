package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the tracking state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inprogress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskName  = errors.New("task name cannot be empty")
	ErrEmptyTaskOwner = errors.New("task owner cannot be empty")
)

// Task represents a to-do item owned by exactly one account. Owner holds the
// owning account's username and is the only authorization boundary in the
// system: every mutating operation must verify it against the authenticated
// principal.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask creates a new Task owned by the given username.
// It generates a new UUID for the task ID, sets the status to todo,
// and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(owner, name, description string, dueDate *time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      TaskStatusTodo,
		DueDate:     dueDate,
		Owner:       owner,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if t.Owner == "" {
		return ErrEmptyTaskOwner
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsValidTaskStatus checks if the given status is one of the three tracked
// states. Transitions between the states are deliberately unrestricted: a
// completed task may be moved back to inprogress or todo at any time.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
