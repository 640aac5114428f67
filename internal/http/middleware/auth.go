package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/snapbite/snapbite/internal/http/util"
)

// UserIDKey is the locals key under which the authenticated user id is stored.
const UserIDKey = "user_id"

// Auth validates the bearer session token and stores the acting user id in
// request locals. Identity resolution beyond the token is out of scope here.
func Auth(signer *util.SessionSigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		userID, err := signer.Validate(strings.TrimPrefix(header, prefix))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID extracts the authenticated user id set by Auth.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(UserIDKey).(string); ok {
		return id
	}
	return ""
}
