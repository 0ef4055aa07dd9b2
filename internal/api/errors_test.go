package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/service/auth"
	"github.com/phrazzld/tasktrack/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"user not found", store.ErrUserNotFound, http.StatusNotFound},
		{"duplicate username", store.ErrUsernameExists, http.StatusBadRequest},
		{"invalid credentials", auth.ErrInvalidCredentials, http.StatusBadRequest},
		{"validation failed", domain.ErrValidation, http.StatusBadRequest},
		{"invalid ID", domain.ErrInvalidID, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidTaskStatus, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped not found",
			fmt.Errorf("loading task: %w", store.ErrTaskNotFound),
			http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "Token expired"},
		{"invalid token", auth.ErrInvalidToken, "Invalid token"},
		{"invalid credentials", auth.ErrInvalidCredentials, "Invalid credentials"},
		{"forbidden", domain.ErrForbidden, "Not authorized"},
		{"task not found", store.ErrTaskNotFound, "Task not found"},
		{"duplicate username", store.ErrUsernameExists, "Username already exists"},
		{
			"internal details are hidden",
			errors.New("pq: connection refused on 10.0.0.5"),
			"An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}
