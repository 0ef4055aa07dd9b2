package api

import (
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserProfile is the public view of an account returned by the auth endpoints.
// The password hash is never part of any response.
type UserProfile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
}

// CreateTaskRequest defines the payload for creating a task.
// The owner is always taken from the authenticated principal, never the body.
type CreateTaskRequest struct {
	Name        string     `json:"name"        validate:"required,min=1"`
	Description string     `json:"description" validate:"omitempty"`
	DueDate     *time.Time `json:"dueDate"     validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for partially updating a task.
// Pointer fields distinguish "absent from request" from "present but empty":
// nil means keep the stored value, non-nil replaces it. This deliberately
// allows clearing a description with an explicit empty string.
type UpdateTaskRequest struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1"`
	Description *string    `json:"description" validate:"omitempty"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=todo inprogress completed"`
	DueDate     *time.Time `json:"dueDate"     validate:"omitempty"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	Owner       string     `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskEnvelope wraps a task in mutation responses.
type TaskEnvelope struct {
	Message string       `json:"message"`
	Task    TaskResponse `json:"task"`
}

// MessageResponse carries a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// taskToResponse converts a domain task to its JSON representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Name:        task.Name,
		Description: task.Description,
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		Owner:       task.Owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
