// handlers/downloads.go
package handlers

import (
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDownloadRoutes(app *fiber.App, downloadService *services.DownloadService) {
	// Preflight gets its CORS headers from the cors middleware upstream.
	app.Options("/downloads/issue", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/downloads/issue", downloadService.IssueDownload)
	app.All("/downloads/issue", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{"error": "Method not allowed"})
	})
}
