package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/paywall"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

// HandlePaymentStatus returns a payment attempt to its owner. Foreign and
// unknown tokens get the same generic 403 so existence cannot be probed.
func HandlePaymentStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	token := c.Params("token")

	svc := paywall.NewServiceFromDB(database.GetDB())
	attempt, err := svc.PaymentStatus(userCtx.UserID, token)
	if err != nil {
		if errors.Is(err, paywall.ErrNotOwned) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "status_lookup_failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  attempt.Status,
		"amount":  attempt.Amount,
		"plan_id": attempt.PlanID,
	})
}
