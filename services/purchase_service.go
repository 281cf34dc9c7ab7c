// neon-store-backend/services/purchase_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"neon-store-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseService struct {
	DB *gorm.DB
}

func NewPurchaseService(db *gorm.DB) *PurchaseService {
	return &PurchaseService{DB: db}
}

type checkoutRequest struct {
	GameSlug            string     `json:"game_slug"`
	Edition             string     `json:"edition"`
	IsPreorder          bool       `json:"is_preorder"`
	PreorderReleaseDate *time.Time `json:"preorder_release_date"`
}

// Checkout records a purchase for the authenticated user. Payment is
// simulated; the record itself is what the download flow checks.
func (s *PurchaseService) Checkout(c *fiber.Ctx) error {
	userID := userIDFromLocals(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	gameSlug := strings.TrimSpace(req.GameSlug)
	if gameSlug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "game_slug is required"})
	}
	if req.IsPreorder && req.PreorderReleaseDate == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "preorder_release_date is required for preorders"})
	}

	var game models.Game
	err := s.DB.Where("slug = ? AND status = ?", gameSlug, models.GameStatusApproved).First(&game).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	edition := strings.TrimSpace(req.Edition)
	if edition == "" {
		edition = "standard"
	}

	orderStatus := models.OrderStatusComplete
	if req.IsPreorder {
		orderStatus = models.OrderStatusPreorder
	}

	purchase := models.Purchase{
		ID:                  uuid.NewString(),
		UserID:              userID,
		GameSlug:            gameSlug,
		Edition:             edition,
		IsPreorder:          req.IsPreorder,
		PreorderReleaseDate: req.PreorderReleaseDate,
		OrderStatus:         orderStatus,
	}
	if err := s.DB.Create(&purchase).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record purchase"})
	}

	return c.Status(fiber.StatusCreated).JSON(purchase)
}

// History lists the authenticated user's purchases, newest first.
func (s *PurchaseService) History(c *fiber.Ctx) error {
	userID := userIDFromLocals(c)

	var purchases []models.Purchase
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch purchases"})
	}
	return c.JSON(purchases)
}
