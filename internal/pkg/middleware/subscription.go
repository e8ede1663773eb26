package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/app/models"
	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/paywall"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

// ActiveSubscriptionFinder resolves a user to their current entitling
// subscription, or nil when they have none.
type ActiveSubscriptionFinder func(userID uint) (*models.Subscription, error)

var findActiveSubscription ActiveSubscriptionFinder = func(userID uint) (*models.Subscription, error) {
	return paywall.NewServiceFromDB(database.GetDB()).FindActive(userID)
}

// SetActiveSubscriptionFinder overrides the ledger lookup, used by tests.
func SetActiveSubscriptionFinder(f ActiveSubscriptionFinder) {
	findActiveSubscription = f
}

// RequireActiveSubscription is stage two of the access gate: it runs only
// behind RequireAPISessionAuth and rejects callers without an entitling
// subscription. The 403 body is deliberately generic; it never explains why.
func RequireActiveSubscription(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	sub, err := findActiveSubscription(userCtx.UserID)
	if err != nil || sub == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":   "forbidden",
			"message": "active subscription required",
		})
	}

	return c.Next()
}
