package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/store"
)

// TaskHandler handles task-related HTTP requests. Every route it serves sits
// behind the authentication middleware, so a verified principal is always
// present in the request context.
type TaskHandler struct {
	taskStore store.TaskStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskStore: taskStore,
		validator: validator.New(),
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks requests.
// The created task is always owned by the authenticated principal.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := getPrincipal(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, err := domain.NewTask(principal.Username, req.Name, req.Description, req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		log.Error("failed to create task", "error", err, "owner", principal.Username)
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Error creating task", err)
		return
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner", task.Owner))
	shared.RespondWithJSON(w, r, http.StatusCreated, TaskEnvelope{
		Message: "Task created successfully",
		Task:    taskToResponse(task),
	})
}

// ListTasks handles GET /tasks/{username} requests.
// A principal may only list their own tasks; any other target is forbidden
// regardless of whether it exists.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := getPrincipal(w, r, log)
	if !ok {
		return
	}

	username := chi.URLParam(r, "username")
	if username != principal.Username {
		log.Warn("cross-user task listing rejected",
			slog.String("principal", principal.Username),
			slog.String("target", username))
		shared.RespondWithError(
			w, r, http.StatusForbidden, "Not authorized to view these tasks")
		return
	}

	tasks, err := h.taskStore.ListByOwner(r.Context(), username)
	if err != nil {
		log.Error("failed to list tasks", "error", err, "owner", username)
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), "Error fetching tasks", err)
		return
	}

	// Empty list serializes as [], not null.
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateTask handles PUT /tasks/{id} requests.
// Only fields present in the request body are applied; absent fields keep
// their stored values. Status transitions between the three states are
// unrestricted.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := getPrincipal(w, r, log)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	task, ok := h.fetchOwnedTask(w, r, log, taskID, principal.Username)
	if !ok {
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Task name cannot be empty")
			return
		}
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		// The validator's oneof tag has already rejected unknown values.
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		log.Error("failed to update task", "error", err, "task_id", taskID)
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, TaskEnvelope{
		Message: "Task updated successfully",
		Task:    taskToResponse(task),
	})
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	principal, ok := getPrincipal(w, r, log)
	if !ok {
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	if _, ok := h.fetchOwnedTask(w, r, log, taskID, principal.Username); !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		// A concurrent delete between the ownership check and here surfaces
		// as NotFound, which is an acceptable outcome.
		log.Error("failed to delete task", "error", err, "task_id", taskID)
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("task deleted", slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Task deleted successfully",
	})
}

// fetchOwnedTask loads a task and enforces the ownership rule shared by
// update and delete: NotFound when the task does not exist, Forbidden when it
// belongs to someone else. On failure it writes the error response and
// returns false.
func (h *TaskHandler) fetchOwnedTask(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	taskID uuid.UUID,
	username string,
) (*domain.Task, bool) {
	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
			return nil, false
		}
		log.Error("failed to get task", "error", err, "task_id", taskID)
		shared.RespondWithErrorAndLog(
			w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return nil, false
	}

	if task.Owner != username {
		log.Warn("cross-user task mutation rejected",
			slog.String("principal", username),
			slog.String("owner", task.Owner),
			slog.String("task_id", taskID.String()))
		shared.RespondWithError(w, r, http.StatusForbidden, "Not authorized")
		return nil, false
	}

	return task, true
}
