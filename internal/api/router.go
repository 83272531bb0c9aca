package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/gradebook/internal/api/middleware"
	"github.com/phrazzld/gradebook/internal/service"
	"github.com/phrazzld/gradebook/internal/service/auth"
)

// RouterDeps holds what NewRouter needs to build the handler tree.
type RouterDeps struct {
	Registry   service.RegistryService
	JWTService auth.JWTService
	Logger     *slog.Logger
	// Metrics serves /metrics when non-nil.
	Metrics http.Handler
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(deps.Logger))

	registryHandler := NewRegistryHandler(deps.Registry, deps.JWTService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(deps.JWTService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", registryHandler.Register)
		r.Post("/auth/login", registryHandler.Login)

		// Any valid token may act on any email; grades are not owner-scoped.
		// The acting user is logged from the token claims.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/users/{email}/grades", registryHandler.AddGrade)
			r.Get("/users/{email}/grades", registryHandler.ListGrades)
			r.Get("/users/{email}/standing", registryHandler.Standing)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			deps.Logger.Error("Failed to write health check response", "error", err)
		}
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	return r
}
