package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
)

// RouteConfig bundles everything RegisterRoutes needs.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Complaints *handlers.ComplaintsHandler
	Catalog    *handlers.CatalogHandler

	AuthMiddleware    *auth.Middleware
	CatalogMiddleware *auth.CatalogMiddleware
	AuthRateLimit     fiber.Handler
}

// RegisterRoutes mounts all endpoints on the app.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)

	app.Post("/register", rc.AuthRateLimit, rc.Users.Register)
	app.Post("/login", rc.AuthRateLimit, rc.Users.Login)

	app.Get("/users", rc.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), rc.Users.List)
	app.Put("/users/:id/make-admin", rc.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), rc.Users.MakeAdmin)
	app.Put("/users/:id/make-approver", rc.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), rc.Users.MakeApprover)

	complaints := app.Group("/complaints", rc.AuthMiddleware.Handle)
	complaints.Get("/", rc.Complaints.List)
	complaints.Post("/", auth.RequireRole(domain.RoleComplainer), rc.Complaints.Create)
	complaints.Put("/:id/approve", auth.RequireRole(domain.RoleApprover), rc.Complaints.Approve)
	complaints.Put("/:id/reject", auth.RequireRole(domain.RoleApprover), rc.Complaints.Reject)
	complaints.Delete("/:id", auth.RequireRole(domain.RoleAdmin), rc.Complaints.Delete)

	catalog := app.Group("/catalog")
	catalog.Post("/register", rc.AuthRateLimit, rc.Catalog.Register)
	catalog.Post("/login", rc.AuthRateLimit, rc.Catalog.Login)
	catalog.Get("/clothes", rc.CatalogMiddleware.Handle, rc.Catalog.ListItems)
	catalog.Post("/clothes", rc.CatalogMiddleware.Handle, auth.RequireCatalogAdmin(), rc.Catalog.CreateItem)
}
