package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quickdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/quickdesk/helpdesk-service/internal/auth"
	"github.com/quickdesk/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AgentTickets   *handlers.AgentTicketsHandler
	Admin          *handlers.AdminHandler
	Attachments    *handlers.AttachmentsHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Every protected group resolves the
// principal first and checks the role's capability before its handlers run.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", auth.RequireCapability(auth.CapCreateTicket), cfg.Tickets.Create)
	tickets.Get("", auth.RequireCapability(auth.CapViewOwnTickets), cfg.Tickets.List)
	tickets.Get("/:id", auth.RequireCapability(auth.CapViewOwnTickets), cfg.Tickets.Get)
	tickets.Post("/:id/replies", auth.RequireCapability(auth.CapReply), cfg.Tickets.Reply)

	agent := app.Group("/agent/tickets", cfg.AuthMiddleware.Handle, auth.RequireCapability(auth.CapViewAllTickets))
	agent.Get("", cfg.AgentTickets.List)
	agent.Get("/:id", cfg.AgentTickets.Get)
	agent.Post("/:id/replies", auth.RequireCapability(auth.CapReply), cfg.AgentTickets.Reply)
	agent.Patch("/:id/status", auth.RequireCapability(auth.CapSetStatus), cfg.AgentTickets.SetStatus)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle)
	admin.Get("/tickets", auth.RequireCapability(auth.CapViewAllTickets), cfg.Admin.ListTickets)
	admin.Get("/tickets/:id", auth.RequireCapability(auth.CapViewAllTickets), cfg.Admin.GetTicket)
	admin.Post("/agents", auth.RequireCapability(auth.CapManageUsers), cfg.Admin.CreateAgent)
	admin.Get("/users", auth.RequireCapability(auth.CapManageUsers), cfg.Admin.ListUsers)
	admin.Post("/users/:id/toggle-active", auth.RequireCapability(auth.CapManageUsers), cfg.Admin.ToggleUserActive)
	admin.Get("/categories", auth.RequireCapability(auth.CapManageCategories), cfg.Admin.ListCategories)
	admin.Post("/categories", auth.RequireCapability(auth.CapManageCategories), cfg.Admin.AddCategory)
	admin.Delete("/categories/:id", auth.RequireCapability(auth.CapManageCategories), cfg.Admin.RemoveCategory)

	attachments := app.Group("/attachments", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	attachments.Get("/:name", cfg.Attachments.Get)
}
