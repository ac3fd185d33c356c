package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/task-management/internal/auth"
	"github.com/frahmantamala/task-management/internal/permission"
	"github.com/frahmantamala/task-management/internal/role"
	"github.com/frahmantamala/task-management/internal/task"
	"github.com/frahmantamala/task-management/internal/transport/middleware"
	"github.com/frahmantamala/task-management/internal/transport/swagger"
	"github.com/frahmantamala/task-management/internal/user"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Health      *HealthHandler
	Auth        *auth.Handler
	Users       *user.Handler
	Tasks       *task.Handler
	Roles       *role.Handler
	Permissions *permission.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	SpecPath       string
	RequestTimeout time.Duration
	// RequestValidator, when set, checks requests against the API document.
	RequestValidator func(http.Handler) http.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	if opts.SpecPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.SpecPath)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", h.Health.Ping)
		r.Get("/health", h.Health.Health)

		r.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(opts.RequestTimeout))
			if opts.RequestValidator != nil {
				api.Use(opts.RequestValidator)
			}

			api.Post("/auth/login", h.Auth.Login)
			api.Post("/users", h.Users.CreateUser)

			api.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)

				pr.Get("/users", h.Users.GetUsers)
				pr.Get("/users/me", h.Users.GetCurrentUser)
				pr.Get("/users/search/{query}", h.Users.SearchUsers)
				pr.Get("/users/{id}", h.Users.GetUser)
				pr.Put("/users/{id}", h.Users.UpdateUser)
				pr.Delete("/users/{id}", h.Users.DeleteUser)

				pr.Post("/tasks", h.Tasks.CreateTask)
				pr.Get("/tasks", h.Tasks.GetTasks)
				pr.Get("/tasks/search/{query}", h.Tasks.SearchTasks)
				pr.Get("/tasks/{id}", h.Tasks.GetTask)
				pr.Put("/tasks/{id}", h.Tasks.UpdateTask)
				pr.Delete("/tasks/{id}", h.Tasks.DeleteTask)

				pr.Post("/roles", h.Roles.CreateRole)
				pr.Get("/roles", h.Roles.GetRoles)
				pr.Get("/roles/{id}", h.Roles.GetRole)
				pr.Put("/roles/{id}", h.Roles.UpdateRole)
				pr.Delete("/roles/{id}", h.Roles.DeleteRole)

				pr.Post("/permissions", h.Permissions.CreatePermission)
				pr.Get("/permissions", h.Permissions.GetPermissions)
				pr.Get("/permissions/search", h.Permissions.SearchPermissions)
				pr.Get("/permissions/{id}", h.Permissions.GetPermission)
				pr.Put("/permissions/{id}", h.Permissions.UpdatePermission)
				pr.Delete("/permissions/{id}", h.Permissions.DeletePermission)
			})
		})
	})
}
