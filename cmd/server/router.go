package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/tasktrack/internal/api"
	apiMiddleware "github.com/phrazzld/tasktrack/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for log/error correlation
	r.Use(app.metricsCollector.Middleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskStore, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public, rate limited against credential guessing)
	r.Group(func(r chi.Router) {
		r.Use(app.authRateLimiter.Limit)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Task endpoints (require a verified principal)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks/{username}", taskHandler.ListTasks)
		r.Put("/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/tasks/{id}", taskHandler.DeleteTask)
	})

	// Operational endpoints
	r.Handle("/metrics", app.metricsCollector.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
