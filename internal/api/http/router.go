package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rizwanhussain01/EventHub/internal/api/http/handlers"
	"github.com/rizwanhussain01/EventHub/internal/auth"
	"github.com/rizwanhussain01/EventHub/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Events         *handlers.EventsHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	Planner        *handlers.PlannerHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	eventsGroup := api.Group("/events")
	eventsGroup.Get("/", cfg.Events.Browse)
	eventsGroup.Get("/organizer/my-events",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Events.MyEvents)
	eventsGroup.Get("/:id", cfg.AuthMiddleware.HandleOptional, cfg.Events.Get)
	eventsGroup.Post("/",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Events.Create)
	eventsGroup.Put("/:id",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Events.Update)
	eventsGroup.Delete("/:id",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Events.Delete)
	eventsGroup.Post("/:id/register", cfg.AuthMiddleware.Handle, cfg.Tickets.Register)
	eventsGroup.Get("/:id/attendees",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Tickets.Attendees)

	ticketsGroup := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	ticketsGroup.Get("/my-tickets", cfg.Tickets.MyTickets)
	ticketsGroup.Delete("/:id", cfg.Tickets.Cancel)

	adminGroup := api.Group("/admin",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin))
	adminGroup.Get("/users", cfg.Admin.ListUsers)
	adminGroup.Delete("/users/:id", cfg.Admin.DeleteUser)
	adminGroup.Get("/events", cfg.Admin.ListEvents)
	adminGroup.Get("/stats", cfg.Admin.Stats)

	api.Post("/ai-chat",
		cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOrganizer, domain.RoleAdmin),
		cfg.Planner.Chat)
}
