package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FelixBrandt/PressPass/app/models"
)

func activeSubscriptionFor(userID uint) ActiveSubscriptionFinder {
	return func(id uint) (*models.Subscription, error) {
		if id != userID {
			return nil, nil
		}
		return &models.Subscription{
			ID:        1,
			UserID:    userID,
			PlanID:    "starter",
			Status:    models.SubscriptionStatusActive,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil
	}
}

func noSubscription(id uint) (*models.Subscription, error) {
	return nil, nil
}

// A caller without a subscription gets the same generic 403 no matter which
// slug they ask for; nothing past the gate ever runs.
func TestRequireActiveSubscriptionBlocksAnySlug(t *testing.T) {
	SetActiveSubscriptionFinder(noSubscription)

	reached := false
	app := fiber.New()
	app.Get("/premium/:slug", loginAs(42), RequireActiveSubscription, func(c *fiber.Ctx) error {
		reached = true
		return c.SendString("content")
	})

	for _, slug := range []string{"deep-dive-2026", "no-such-article", "..%2f..%2fetc"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/premium/"+slug, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "slug %q", slug)
	}
	assert.False(t, reached)
}

func TestRequireActiveSubscriptionPassesSubscriber(t *testing.T) {
	SetActiveSubscriptionFinder(activeSubscriptionFor(42))

	app := fiber.New()
	app.Get("/premium/:slug", loginAs(42), RequireActiveSubscription, func(c *fiber.Ctx) error {
		return c.SendString("content")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/premium/deep-dive-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// The subscription stage must never run for an anonymous caller: the ledger
// lookup would leak timing and the 403 would leak that the gate exists past
// authentication.
func TestSubscriptionCheckRunsOnlyAfterAuth(t *testing.T) {
	lookups := 0
	SetActiveSubscriptionFinder(func(id uint) (*models.Subscription, error) {
		lookups++
		return nil, nil
	})

	app := fiber.New()
	app.Get("/premium/:slug", RequireAPISessionAuth, RequireActiveSubscription, func(c *fiber.Ctx) error {
		return c.SendString("content")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/premium/deep-dive-2026", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 0, lookups)
}
