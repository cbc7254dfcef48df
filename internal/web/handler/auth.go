package handler

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireSecret is a Fiber middleware guarding trigger endpoints with a
// shared secret. The secret is accepted as a bearer token or as the `secret`
// query parameter. An empty configured secret disables the check.
func RequireSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		presented := bearerToken(c)
		if presented == "" {
			presented = c.Query("secret")
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "unauthorized",
			})
		}

		return c.Next()
	}
}

// bearerToken extracts the token of an Authorization: Bearer header.
func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	return strings.TrimSpace(auth[len(prefix):])
}
