package controllers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/env"
	"github.com/FelixBrandt/PressPass/internal/pkg/paywall"
	"github.com/FelixBrandt/PressPass/internal/pkg/usercontext"
)

type checkoutRequest struct {
	PlanID string `json:"plan_id" validate:"required,min=1,max=50"`
}

// HandleCheckout creates a pending payment attempt for the logged-in user.
// The caller names a plan, never an amount; pricing is server-side only.
func HandleCheckout(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "invalid request body",
		})
	}
	if err := validator.New().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "plan_id is required",
		})
	}

	svc := paywall.NewServiceFromDB(database.GetDB())
	attempt, plan, err := svc.InitiateCheckout(userCtx.UserID, req.PlanID, GetClientIP(c))
	if err != nil {
		if errors.Is(err, paywall.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "bad_request",
				"message": "unknown plan",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "checkout_failed",
		})
	}

	// The processor-specific checkout page is external glue; we only hand the
	// caller the token-scoped URL.
	checkoutURL := fmt.Sprintf("%s/%s",
		env.GetEnv("CHECKOUT_BASE_URL", "https://pay.example.com/session"),
		attempt.Token,
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"checkout_token": attempt.Token,
		"checkout_url":   checkoutURL,
		"plan": fiber.Map{
			"id":       plan.ID,
			"name":     plan.Name,
			"price":    plan.Price,
			"currency": plan.Currency,
		},
	})
}
