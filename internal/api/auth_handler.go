package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/tasktrack/internal/api/shared"
	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/platform/logger"
	"github.com/phrazzld/tasktrack/internal/service/auth"
	"github.com/phrazzld/tasktrack/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	validator        *validator.Validate
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		validator:        validator.New(),
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles the POST /register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// Create user
	user, err := domain.NewUser(req.Username, req.Name, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	// Store user (the store hashes the password before persisting)
	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Username already exists")
			return
		}
		log.Error("failed to create user", "error", err, "username", req.Username)
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Error creating user", err)
		return
	}

	// Generate token so freshly registered users are signed in immediately
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Message: "Registration successful",
		Token:   token,
		User: UserProfile{
			Username: user.Username,
			Name:     user.DisplayName,
		},
	})
}

// Login handles the POST /login endpoint.
//
// Unknown usernames and wrong passwords produce byte-identical responses so
// the endpoint never reveals which check failed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest

	// Parse request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Validate request
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	// Get user by username
	user, err := h.userStore.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondInvalidCredentials(w, r)
			return
		}
		log.Error("failed to get user by username", "error", err, "username", req.Username)
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Error logging in", err)
		return
	}

	// Verify password using the injected verifier
	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		respondInvalidCredentials(w, r)
		return
	}

	// Generate token
	token, err := h.jwtService.GenerateToken(r.Context(), user.ID, user.Username)
	if err != nil {
		log.Error("failed to generate token", "error", err, "user_id", user.ID)
		shared.RespondWithErrorAndLog(
			w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User: UserProfile{
			Username: user.Username,
			Name:     user.DisplayName,
		},
	})
}

// respondInvalidCredentials is the single failure response for login.
func respondInvalidCredentials(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(
		w, r, MapErrorToStatusCode(auth.ErrInvalidCredentials),
		GetSafeErrorMessage(auth.ErrInvalidCredentials))
}
