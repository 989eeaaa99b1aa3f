package routes

import (
	auth_handlers "citadental.pe/handlers/auth"
	"citadental.pe/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App) {
	authHandler := auth_handlers.NewAuthHandler()

	app.Get("/login", middlewares.GuestMiddleware, authHandler.ShowLogin)
	app.Post("/login", middlewares.GuestMiddleware, authHandler.Login)
	app.Get("/logout", authHandler.Logout)
}
