package routes

import (
	panel_handlers "citadental.pe/handlers/panel"
	"citadental.pe/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes defines the staff panel under /admin. Mutating
// actions are POSTs so a crawler on the listing can never flip a status.
func registerPanelRoutes(app *fiber.App) {
	appointmentHandler := panel_handlers.NewPanelAppointmentHandler()

	adminGroup := app.Group("/admin")
	adminGroup.Use(middlewares.AuthMiddleware)

	adminGroup.Get("/", appointmentHandler.ListAppointments)

	adminGroup.Get("/appointments/create", appointmentHandler.ShowCreateAppointment)
	adminGroup.Post("/appointments/create", appointmentHandler.CreateAppointment)

	adminGroup.Post("/appointments/authorize/:id", appointmentHandler.Authorize)
	adminGroup.Post("/appointments/attend/:id", appointmentHandler.Attend)
	adminGroup.Post("/appointments/cancel/:id", appointmentHandler.Cancel)
	adminGroup.Post("/appointments/delete/:id", appointmentHandler.Delete)
}
