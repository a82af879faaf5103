package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Blogs          *handlers.BlogsHandler
	Comments       *handlers.CommentsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", handlers.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	requireAuth := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/password/change", requireAuth, cfg.Auth.ChangePassword)

	app.Get("/protected-route", requireAuth, handlers.Protected)

	blogs := app.Group("/blogs", requireAuth)
	blogs.Get("/", cfg.Blogs.List)
	blogs.Post("/", cfg.Blogs.Create)
	blogs.Get("/:id", cfg.Blogs.Get)
	blogs.Put("/:id", cfg.Blogs.Update)
	blogs.Delete("/:id", cfg.Blogs.Delete)
	blogs.Post("/:id/like", cfg.Blogs.Like)

	blogs.Get("/:id/comments", cfg.Comments.List)
	blogs.Post("/:id/comments", cfg.Comments.Create)
	blogs.Put("/:id/comments/:commentID", cfg.Comments.Update)
	blogs.Delete("/:id/comments/:commentID", cfg.Comments.Delete)

	users := app.Group("/users", requireAuth)
	users.Get("/profile", cfg.Users.Me)
	users.Put("/profile", cfg.Users.UpdateMe)
	users.Put("/profile/image", cfg.Users.UpdateImage)
	users.Get("/:id", cfg.Users.Get)
	users.Delete("/:id", cfg.Users.Delete)
}
