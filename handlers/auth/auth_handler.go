package handlers // handlers/auth

import (
	"strings"

	"citadental.pe/configs"
	"citadental.pe/configs/configslog"
	"citadental.pe/pkg/flashmessages"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionStaffKey marks a session as an authenticated front-desk login.
const SessionStaffKey = "staff_authenticated"

// AuthHandler implements the PIN gate in front of the staff panel.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

func (h *AuthHandler) getSession(c *fiber.Ctx) (*session.Session, error) {
	store, _ := c.Locals("session_store").(*session.Store)
	if store == nil {
		return nil, fiber.ErrInternalServerError
	}
	return store.Get(c)
}

// ShowLogin renders the PIN form.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return c.Render("auth/login", fiber.Map{
		"Title": "Acceso al panel",
		"Flash": flashmessages.GetFlashMessages(c),
	}, "layouts/main")
}

// Login checks the submitted PIN against the configured hash and, on
// success, marks the session as staff.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	pin := strings.TrimSpace(c.FormValue("pin"))

	if pin == "" || !configs.Get().CheckAdminPIN(pin) {
		configslog.SLog.Warnf("failed panel login attempt from %s", c.IP())
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "PIN incorrecto")
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	sess, err := h.getSession(c)
	if err != nil {
		return err
	}
	sess.Set(SessionStaffKey, true)
	if err := sess.Save(); err != nil {
		return err
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Bienvenida al panel de control")
	return c.Redirect("/admin", fiber.StatusFound)
}

// Logout clears the session entirely.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess, err := h.getSession(c); err == nil {
		_ = sess.Destroy()
	}
	return c.Redirect("/", fiber.StatusFound)
}
