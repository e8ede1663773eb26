package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/FelixBrandt/PressPass/app/controllers"
	"github.com/FelixBrandt/PressPass/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	v1 := api.Group("/v1")
	v1.Get("/plans", controllers.HandleListPlans)
	v1.Post("/checkout", middleware.RequireAPISessionAuth, controllers.HandleCheckout)
	v1.Get("/payments/:token", middleware.RequireAPISessionAuth, controllers.HandlePaymentStatus)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
