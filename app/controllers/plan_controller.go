package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/internal/pkg/plans"
)

// HandleListPlans returns the public plan catalog.
func HandleListPlans(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"plans": plans.GetCatalog().ListPublic(),
	})
}
