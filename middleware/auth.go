// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"neon-store-backend/models"
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RequireUser verifies the bearer token against the identity provider and
// stashes the caller's user ID in Locals. Applied to purchase and admin
// routes; the download issuance endpoint runs its own checks in order.
func RequireUser(verifier services.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || token == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
		}

		identity, err := verifier.Verify(c.UserContext(), token)
		if err != nil || identity == nil {
			log.Printf("🚫 [AUTH] token rejected for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("user_id", identity.ID)
		return c.Next()
	}
}

// RequireAdmin gates admin routes on the user_roles table. Must run after
// RequireUser.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
		}

		var count int64
		err := db.Model(&models.UserRole{}).
			Where("user_id = ? AND role = ?", userID, models.RoleAdmin).
			Count(&count).Error
		if err != nil {
			log.Printf("❌ [AUTH] role lookup failed for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authorization check failed"})
		}
		if count == 0 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin role required"})
		}

		return c.Next()
	}
}
