package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/FelixBrandt/PressPass/internal/pkg/cache"
	"github.com/FelixBrandt/PressPass/internal/pkg/database"
	"github.com/FelixBrandt/PressPass/internal/pkg/env"
	"github.com/FelixBrandt/PressPass/internal/pkg/jobqueue"
	"github.com/FelixBrandt/PressPass/internal/pkg/plans"
	"github.com/FelixBrandt/PressPass/internal/pkg/router"
	"github.com/FelixBrandt/PressPass/internal/pkg/vault"
)

func main() {
	app := NewApplication()
	defer jobqueue.StopManager()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	plans.SetupCatalog()
	vault.SetupRegistry()

	// Deferred side effects (receipts, stats flush) run off the request path
	jobqueue.StartManager(2, time.Minute)

	app := fiber.New(fiber.Config{
		BodyLimit: 1048576, // 1 MiB, webhook payloads are small
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
