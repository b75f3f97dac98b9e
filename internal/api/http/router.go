package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/didnumber-service/internal/api/http/handlers"
	"github.com/spec-kit/didnumber-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	DidNumbers     *handlers.DidNumbersHandler
	Employees      *handlers.EmployeesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/register", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)

	app.Get("/logout", cfg.AuthMiddleware.RequireLogin, cfg.Auth.Logout)
	app.Post("/logout", cfg.AuthMiddleware.RequireLogin, cfg.Auth.Logout)

	dids := app.Group("/didnumbers", cfg.AuthMiddleware.RequireLogin)
	dids.Get("/", cfg.DidNumbers.List)
	dids.Get("/page/:page", cfg.DidNumbers.List)
	dids.Post("/add", cfg.DidNumbers.Add)
	dids.Put("/edit/:id", auth.RequireAdmin(), cfg.DidNumbers.Edit)
	dids.Delete("/delete/:id", auth.RequireAdmin(), cfg.DidNumbers.Delete)
	dids.Get("/:id", cfg.DidNumbers.Get)

	employees := app.Group("/employees", cfg.AuthMiddleware.RequireLogin, auth.RequireAdmin())
	employees.Get("/", cfg.Employees.List)
	employees.Get("/:id", cfg.Employees.Get)
}
