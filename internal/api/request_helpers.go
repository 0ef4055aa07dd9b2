package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
)

// getPrincipal extracts the authenticated principal from the request context.
// The principal is placed there by the authentication middleware. If it is
// missing, an error response is written and ok is false.
func getPrincipal(w http.ResponseWriter, r *http.Request, log *slog.Logger) (shared.Principal, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	principal, ok := shared.GetPrincipal(r.Context())
	if !ok {
		log.Warn("principal not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return shared.Principal{}, false
	}

	return principal, true
}

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}

	return id, nil
}
