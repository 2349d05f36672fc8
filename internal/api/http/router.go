package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/reminder-service/internal/api/http/handlers"
	"github.com/spec-kit/reminder-service/internal/auth"
	"github.com/spec-kit/reminder-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Reminders      *handlers.RemindersHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())

	// Guild reminder administration; settings mutation needs admin.
	reminders := api.Group("/guilds/:guildID/reminders")
	reminders.Get("/", cfg.Reminders.GetSettings)
	reminders.Get("/debug", cfg.Reminders.Debug)

	adminOnly := auth.RequireStaffRole(domain.StaffRoleAdmin)
	reminders.Put("/enabled", adminOnly, cfg.Reminders.SetEnabled)
	reminders.Put("/role", adminOnly, cfg.Reminders.SetRole)
	reminders.Put("/timeout", adminOnly, cfg.Reminders.SetTimeout)
	reminders.Put("/mode", adminOnly, cfg.Reminders.SetMode)
	reminders.Put("/interval", adminOnly, cfg.Reminders.SetInterval)
	reminders.Put("/max-count", adminOnly, cfg.Reminders.SetMaxCount)

	hours := api.Group("/guilds/:guildID/service-hours")
	hours.Put("/enabled", adminOnly, cfg.Reminders.SetServiceHoursEnabled)
	hours.Get("/schedules", cfg.Reminders.ListSchedules)
	hours.Post("/schedules", adminOnly, cfg.Reminders.AddSchedule)
	hours.Delete("/schedules/:scheduleID", adminOnly, cfg.Reminders.RemoveSchedule)

	holidays := api.Group("/guilds/:guildID/holidays")
	holidays.Get("/", cfg.Reminders.ListHolidays)
	holidays.Post("/", adminOnly, cfg.Reminders.AddHoliday)
	holidays.Delete("/:holidayID", adminOnly, cfg.Reminders.RemoveHoliday)

	// Staff can manage their own routing preference; lookups stay open to
	// any authenticated staff member for debugging.
	staff := api.Group("/staff/:staffID/preferences")
	staff.Get("/", cfg.Reminders.GetStaffPreference)
	staff.Put("/", cfg.Reminders.SetStaffPreference)

	// Ingest boundary for the chat layer.
	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Events.OpenTicket)
	tickets.Post("/:ticketID/events/customer-message", cfg.Events.CustomerMessage)
	tickets.Post("/:ticketID/events/staff-response", cfg.Events.StaffResponse)
	tickets.Post("/:ticketID/events/no-response-needed", cfg.Events.NoResponseNeeded)
	tickets.Post("/:ticketID/events/human-handoff", cfg.Events.HumanHandoff)
	tickets.Post("/:ticketID/events/close", cfg.Events.CloseTicket)
}
