package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// StaffLocalKey is where the session initializer places the authenticated
// staff flag. Handlers read it from request locals, never from ambient
// state.
const StaffLocalKey = "isStaff"

// IsStaff reports whether the current request carries the staff flag.
func IsStaff(c *fiber.Ctx) bool {
	staff, ok := c.Locals(StaffLocalKey).(bool)
	return ok && staff
}

// AuthMiddleware gates the staff panel behind the PIN login.
func AuthMiddleware(c *fiber.Ctx) error {
	if IsStaff(c) {
		return c.Next()
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// GuestMiddleware keeps logged-in staff off the login form.
func GuestMiddleware(c *fiber.Ctx) error {
	if IsStaff(c) {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	return c.Next()
}
