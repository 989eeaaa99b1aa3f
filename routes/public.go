package routes

import (
	"citadental.pe/handlers"

	"github.com/gofiber/fiber/v2"
)

func registerPublicRoutes(app *fiber.App) {
	publicHandler := handlers.NewPublicHandler()

	app.Get("/", publicHandler.Index)
	app.Get("/services", publicHandler.Services)
	app.Get("/contact", publicHandler.Contact)
	app.Get("/team", publicHandler.Team)

	app.Get("/book", publicHandler.ShowBooking)
	app.Post("/book", publicHandler.CreateBooking)
	app.Get("/book/success", publicHandler.BookingSuccess)

	app.Get("/health", publicHandler.Health)
}
