package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

// RequireAPISessionAuth ensures a logged-in session and returns JSON 401
// otherwise. This is stage one of the access gate: nothing past this
// middleware runs for anonymous callers, so later stages can never leak
// whether a subscription or resource exists.
func RequireAPISessionAuth(c *fiber.Ctx) error {
	v := c.Locals(usercontext.KeyFromProtected)
	loggedIn := false
	if b, ok := v.(bool); ok {
		loggedIn = b
	}
	if !loggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login required",
		})
	}
	return c.Next()
}
