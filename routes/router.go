package routes

import (
	"citadental.pe/configs/configssession"
	auth_handlers "citadental.pe/handlers/auth"
	"citadental.pe/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes wires the global middleware chain and every route group.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	registerPublicRoutes(app)
	registerAuthRoutes(app)
	registerPanelRoutes(app)

	app.Use(notFoundHandler)
}

// initializeSessionAndLocals exposes the session store and copies the
// staff flag into request locals, so handlers never read ambient state.
func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configssession.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		sess, err := sessionStore.Get(c)
		if err != nil {
			return c.Next()
		}
		if staff, ok := sess.Get(auth_handlers.SessionStaffKey).(bool); ok {
			c.Locals(middlewares.StaffLocalKey, staff)
		}
		return c.Next()
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	if c.Accepts("text/html", "application/json") == "application/json" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{
		"Title": "Página no encontrada",
	}, "layouts/error")
}
