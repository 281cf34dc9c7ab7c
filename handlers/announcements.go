// handlers/announcements.go
package handlers

import (
	"neon-store-backend/middleware"
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAnnouncementRoutes(app *fiber.App, announcementService *services.AnnouncementService, verifier services.TokenVerifier, db *gorm.DB) {
	app.Get("/announcements", announcementService.List)

	admin := app.Group("/admin/announcements", middleware.RequireUser(verifier), middleware.RequireAdmin(db))
	admin.Post("/", announcementService.Create)
	admin.Delete("/:id", announcementService.Delete)
}
