package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/FelixBrandt/PressPass/app/controllers"
	"github.com/FelixBrandt/PressPass/internal/pkg/middleware"
	"github.com/FelixBrandt/PressPass/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Processor webhooks (no session, signature-verified in controller)
	app.Post("/webhooks/payment", controllers.HandlePaymentWebhook)

	// Premium article delivery: the ordered access gate. Session first,
	// subscription second, registry third. The order is load-bearing.
	app.Get("/premium/:slug",
		middleware.RequireAPISessionAuth,
		middleware.RequireActiveSubscription,
		controllers.HandlePremiumArticle,
	)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
