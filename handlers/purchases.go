// handlers/purchases.go
package handlers

import (
	"neon-store-backend/middleware"
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupPurchaseRoutes(app *fiber.App, purchaseService *services.PurchaseService, verifier services.TokenVerifier) {
	secured := app.Group("/purchases", middleware.RequireUser(verifier))

	secured.Post("/checkout", purchaseService.Checkout)
	secured.Get("/history", purchaseService.History)
}
