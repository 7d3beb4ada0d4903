package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-admin/meridian-admin/internal/auth"
	"github.com/meridian-admin/meridian-admin/internal/menus"
	"github.com/meridian-admin/meridian-admin/internal/observability"
	"github.com/meridian-admin/meridian-admin/internal/rbac"
	"github.com/meridian-admin/meridian-admin/internal/roles"
	"github.com/meridian-admin/meridian-admin/internal/shared"
	"github.com/meridian-admin/meridian-admin/internal/users"
	"github.com/meridian-admin/meridian-admin/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	RBACMiddleware rbac.Middleware
	UsersHandler   *users.Handler
	RolesHandler   *roles.Handler
	MenusHandler   *menus.Handler
	JobHandler     *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", func(r chi.Router) {
		params.AuthHandler.MountPublicRoutes(r)
		r.Group(func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			params.AuthHandler.MountProtectedRoutes(r)
		})
	})

	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			r.Use(params.RBACMiddleware.RequireAny(shared.PermUsersView, shared.PermUsersEdit))
			params.UsersHandler.MountRoutes(r)
		})
	}
	if params.RolesHandler != nil {
		r.Route("/roles", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			r.Use(params.RBACMiddleware.RequireAny(shared.PermRolesView, shared.PermRolesEdit))
			params.RolesHandler.MountRoutes(r)
		})
	}
	if params.MenusHandler != nil {
		r.Route("/menus", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			r.Group(func(r chi.Router) {
				r.Use(params.AuthMiddleware.RequireSuperuser)
				params.AuthHandler.MountAdminRoutes(r)
			})
			r.Group(func(r chi.Router) {
				r.Use(params.RBACMiddleware.RequireAny(shared.PermMenusView, shared.PermMenusEdit))
				params.MenusHandler.MountRoutes(r)
			})
		})
	}

	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			r.Use(params.AuthMiddleware.Authenticate)
			r.Use(params.AuthMiddleware.RequireSuperuser)
			params.JobHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
