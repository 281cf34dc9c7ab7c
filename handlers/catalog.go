// handlers/catalog.go
package handlers

import (
	"neon-store-backend/middleware"
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService, verifier services.TokenVerifier, db *gorm.DB) {
	// 🔓 Public storefront routes
	app.Get("/games", catalogService.ListGames)
	app.Get("/games/:slug", catalogService.GetGameBySlug)

	// 🔐 Admin console routes
	admin := app.Group("/admin", middleware.RequireUser(verifier), middleware.RequireAdmin(db))

	admin.Get("/games", catalogService.ListAllGames)
	admin.Post("/games", catalogService.CreateGame)
	admin.Put("/games/:id", catalogService.UpdateGame)
	admin.Patch("/games/:id/status", catalogService.SetGameStatus)
	admin.Delete("/games/:id", catalogService.DeleteGame)
	admin.Post("/games/:id/cover", catalogService.UploadCover)
	admin.Post("/games/:id/dlcs", catalogService.AddDLC)

	admin.Post("/games/:slug/downloads", catalogService.RegisterDownload)
	admin.Get("/games/:slug/downloads", catalogService.ListDownloadTargets)
}
