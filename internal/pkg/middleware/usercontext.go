package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/session"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a typed user context for
// every request. Login and session issuance live outside this service; this
// middleware only reads what the session resolver put there.
func UserContextMiddleware(c *fiber.Ctx) error {
	store := session.GetSessionStore()
	if store == nil {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	sess, err := store.Get(c)
	if err != nil {
		// On error: treat as anonymous
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	userID, ok := sess.Get(usercontext.SessionKeyUserID).(uint)
	if !ok {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{IsLoggedIn: false})
		c.Locals(usercontext.KeyFromProtected, false)
		return c.Next()
	}

	username := session.GetSessionValue(c, usercontext.SessionKeyName)
	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
	})
	c.Locals(usercontext.KeyFromProtected, true)

	return c.Next()
}
