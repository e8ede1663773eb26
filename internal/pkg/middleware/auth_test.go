package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

func loginAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
			UserID:     userID,
			Username:   "reader",
			IsLoggedIn: true,
		})
		c.Locals(usercontext.KeyFromProtected, true)
		return c.Next()
	}
}

func TestRequireAPISessionAuthBlocksAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/gated", RequireAPISessionAuth, func(c *fiber.Ctx) error {
		return c.SendString("content")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAPISessionAuthPassesLoggedIn(t *testing.T) {
	app := fiber.New()
	app.Get("/gated", loginAs(42), RequireAPISessionAuth, func(c *fiber.Ctx) error {
		return c.SendString("content")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// An anonymous request must never reach later gate stages. The sentinel
// handler records whether anything past the auth check ran.
func TestAuthRunsBeforeLaterStages(t *testing.T) {
	reached := false
	app := fiber.New()
	app.Get("/gated", RequireAPISessionAuth, func(c *fiber.Ctx) error {
		reached = true
		return c.SendString("content")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, reached)
}
