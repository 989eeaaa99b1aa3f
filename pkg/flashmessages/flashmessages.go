// Package flashmessages stores one-shot user notices in the session so a
// handler can report success or failure across a redirect.
package flashmessages

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	FlashSuccessKey = "flash_success"
	FlashErrorKey   = "flash_error"
	FlashWarningKey = "flash_warning"
	FlashInfoKey    = "flash_info"
)

var flashKeys = []string{FlashSuccessKey, FlashErrorKey, FlashWarningKey, FlashInfoKey}

func getSession(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals("session_store").(*session.Store)
	if !ok || store == nil {
		return nil, errors.New("session store not configured")
	}
	return store.Get(c)
}

// SetFlashMessage stores a notice under one of the Flash*Key names.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages pops every pending notice. Reading consumes them.
func GetFlashMessages(c *fiber.Ctx) map[string]string {
	messages := make(map[string]string)
	sess, err := getSession(c)
	if err != nil {
		return messages
	}
	changed := false
	for _, key := range flashKeys {
		if v, ok := sess.Get(key).(string); ok && v != "" {
			messages[key] = v
			sess.Delete(key)
			changed = true
		}
	}
	if changed {
		_ = sess.Save()
	}
	return messages
}
