package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/repair-service/internal/api/http/handlers"
	"github.com/campus-kit/repair-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Messages       *handlers.MessagesHandler
	Departments    *handlers.DepartmentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/me", cfg.Users.Me)
	protected.Post("/me/card", cfg.Users.BindCard)
	protected.Put("/me/profile", cfg.Users.UpdateProfile)

	protected.Post("/tickets", cfg.Tickets.Submit)
	protected.Get("/tickets", cfg.Tickets.List)
	protected.Get("/tickets/count", cfg.Tickets.Count)
	protected.Get("/tickets/:id", cfg.Tickets.Detail)
	protected.Delete("/tickets/:id", cfg.Tickets.Delete)
	protected.Post("/tickets/:id/accept", cfg.Tickets.Accept)
	protected.Post("/tickets/:id/deal", cfg.Tickets.Deal)
	protected.Post("/tickets/:id/check", cfg.Tickets.Check)
	protected.Post("/tickets/:id/redirect", cfg.Tickets.Redirect)
	protected.Post("/tickets/:id/remind", cfg.Tickets.Remind)
	protected.Get("/tickets/:id/image", cfg.Tickets.Image)
	protected.Post("/tickets/:id/messages", cfg.Messages.Post)
	protected.Get("/tickets/:id/messages", cfg.Messages.List)

	protected.Get("/departments", cfg.Departments.List)
	protected.Post("/departments", cfg.Departments.Create)
	protected.Get("/departments/:id", cfg.Departments.Get)
	protected.Delete("/departments/:id", cfg.Departments.Delete)
	protected.Post("/departments/:id/staff", cfg.Departments.BindStaff)
	protected.Delete("/departments/:id/staff/:staffId", cfg.Departments.UnbindStaff)
	protected.Get("/departments/:id/admins", cfg.Departments.ListAdmins)
	protected.Post("/departments/:id/admins", cfg.Departments.SetAdmin)
	protected.Delete("/departments/:id/admins/:adminId", cfg.Departments.RemoveAdmin)

	protected.Get("/staff", cfg.Departments.ListStaff)
	protected.Get("/types", cfg.Departments.ListTypes)
	protected.Post("/types", cfg.Departments.CreateType)
	protected.Delete("/types/:id", cfg.Departments.DeleteType)
	protected.Get("/types/:id/staff", cfg.Departments.ListStaffByType)
}
