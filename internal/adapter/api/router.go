package api

import (
	"os"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRouter(app *fiber.App, handler *ChatHandler) {
	// Middleware
	prometheus := fiberprometheus.New("estate-core")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENV"),
		})
	})

	// API Versioning
	v1 := app.Group("/v1")
	v1.Post("/chat", handler.HandleChat)

	// Ingestion endpoints, not exposed to end users.
	admin := app.Group("/admin")
	admin.Post("/import-properties", handler.HandleImportProperties)
	admin.Delete("/properties/:id", handler.HandleDeleteProperty)
}
