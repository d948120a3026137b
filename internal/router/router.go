package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-bookshelf/internal/config"
	"go-bookshelf/internal/handler"
	"go-bookshelf/internal/middleware"
)

// New mounts every route. metricsHandler may be nil, in which case /metrics
// is not exposed.
func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	bookHandler *handler.BookHandler,
	healthHandler *handler.HealthHandler,
	docsHandler *handler.DocsHandler,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", healthHandler.Health)
	r.Get("/openapi.yaml", docsHandler.OpenAPI)
	r.Get("/swagger", docsHandler.SwaggerUI)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Get("/user", authHandler.Authenticate)
			auth.Post("/refresh", authHandler.Refresh)
			auth.Get("/logout", authHandler.Logout)
			auth.Post("/logout", authHandler.Logout)
		})

		api.Route("/books", func(books chi.Router) {
			books.Get("/", bookHandler.List)
			books.Get("/{id}", bookHandler.Get)
			books.With(authMiddleware.RequireAuth).Post("/", bookHandler.Create)
			books.With(authMiddleware.RequireAuth).Put("/{id}", bookHandler.Update)
			books.With(authMiddleware.RequireAuth).Delete("/{id}", bookHandler.Delete)
		})
	})

	return r
}
