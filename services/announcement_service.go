// neon-store-backend/services/announcement_service.go
package services

import (
	"log"
	"path/filepath"

	"neon-store-backend/models"
	"neon-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementService struct {
	DB    *gorm.DB
	Store *utils.ArtifactStore
}

func NewAnnouncementService(db *gorm.DB, store *utils.ArtifactStore) *AnnouncementService {
	return &AnnouncementService{DB: db, Store: store}
}

// List returns storefront banners in display order.
func (s *AnnouncementService) List(c *fiber.Ctx) error {
	var announcements []models.Announcement
	if err := s.DB.Order(`"order" ASC, created_at DESC`).Find(&announcements).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch announcements"})
	}
	return c.JSON(announcements)
}

// Create uploads the banner image to the public bucket and stores the record.
func (s *AnnouncementService) Create(c *fiber.Ctx) error {
	imageFile, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
	}

	ext := filepath.Ext(imageFile.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "banners/" + uuid.NewString() + ext
	imageURL, err := s.Store.UploadPublicAsset(c.UserContext(), imageFile, key)
	if err != nil {
		log.Printf("[ANNOUNCEMENTS] banner upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload banner"})
	}

	announcement := models.Announcement{
		ID:        uuid.NewString(),
		ImageURL:  imageURL,
		Alt:       c.FormValue("alt"),
		Href:      c.FormValue("href"),
		CreatedBy: userIDFromLocals(c),
	}
	if err := s.DB.Create(&announcement).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save announcement"})
	}
	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// Delete removes a banner.
func (s *AnnouncementService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Announcement{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete announcement"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "announcement not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
