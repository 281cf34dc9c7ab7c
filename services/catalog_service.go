// neon-store-backend/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"neon-store-backend/models"
	"neon-store-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CatalogService struct {
	DB    *gorm.DB
	Store *utils.ArtifactStore
}

func NewCatalogService(db *gorm.DB, store *utils.ArtifactStore) *CatalogService {
	return &CatalogService{DB: db, Store: store}
}

type createGameRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags"`
	TrailerURL  string   `json:"trailer_url"`
	Editions    []struct {
		Name         string  `json:"name"`
		Price        float64 `json:"price"`
		IncludesBase bool    `json:"includes_base"`
	} `json:"editions"`
	DLCs []struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"dlcs"`
}

// ListGames returns the approved storefront catalog with media and variants.
func (s *CatalogService) ListGames(c *fiber.Ctx) error {
	var games []models.Game
	err := s.DB.Where("status = ?", models.GameStatusApproved).
		Preload("Tags").Preload("Editions").Preload("DLCs").Preload("Screenshots").
		Find(&games).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

// GetGameBySlug returns a single approved game.
func (s *CatalogService) GetGameBySlug(c *fiber.Ctx) error {
	var game models.Game
	err := s.DB.Where("slug = ? AND status = ?", c.Params("slug"), models.GameStatusApproved).
		Preload("Tags").Preload("Editions").Preload("DLCs").Preload("Screenshots").
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	return c.JSON(game)
}

// ListAllGames is the admin view: every status, no filtering.
func (s *CatalogService) ListAllGames(c *fiber.Ctx) error {
	var games []models.Game
	err := s.DB.Preload("Tags").Preload("Editions").Preload("DLCs").Preload("Screenshots").
		Find(&games).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

// CreateGame creates a new **pending** game with its tags, editions, and DLCs.
func (s *CatalogService) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}

	gameSlug := slug.Make(req.Title)
	var count int64
	if err := s.DB.Model(&models.Game{}).Where("slug = ?", gameSlug).Count(&count).Error; err == nil && count > 0 {
		gameSlug = fmt.Sprintf("%s-%s", gameSlug, uuid.NewString()[:8])
	}

	game := &models.Game{
		ID:          uuid.NewString(),
		Slug:        gameSlug,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		TrailerURL:  req.TrailerURL,
		Status:      models.GameStatusPending,
		CreatedBy:   userIDFromLocals(c),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(game).Error; err != nil {
			return err
		}

		for i, name := range req.Tags {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			tag := models.GameTag{ID: uuid.NewString(), GameID: game.ID, Name: name, Order: i}
			if err := tx.Create(&tag).Error; err != nil {
				return fmt.Errorf("failed to save tag %q: %w", name, err)
			}
		}

		for _, e := range req.Editions {
			edition := models.Edition{
				ID: uuid.NewString(), GameID: game.ID,
				Name: e.Name, Price: e.Price, IncludesBase: e.IncludesBase,
			}
			if err := tx.Create(&edition).Error; err != nil {
				return fmt.Errorf("failed to save edition %q: %w", e.Name, err)
			}
		}

		for _, d := range req.DLCs {
			dlc := models.DLC{ID: uuid.NewString(), GameID: game.ID, Name: d.Name, Price: d.Price}
			if err := tx.Create(&dlc).Error; err != nil {
				return fmt.Errorf("failed to save DLC %q: %w", d.Name, err)
			}
		}

		return tx.Preload("Tags").Preload("Editions").Preload("DLCs").
			First(game, "id = ?", game.ID).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(game)
}

// UpdateGame updates the mutable fields of a game.
func (s *CatalogService) UpdateGame(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	var req struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		TrailerURL  *string  `json:"trailer_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.Title != nil {
		game.Title = *req.Title
	}
	if req.Description != nil {
		game.Description = *req.Description
	}
	if req.Price != nil {
		game.Price = *req.Price
	}
	if req.TrailerURL != nil {
		game.TrailerURL = *req.TrailerURL
	}

	if err := s.DB.Save(&game).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update game"})
	}
	return c.JSON(game)
}

// SetGameStatus approves or rejects a submitted game.
func (s *CatalogService) SetGameStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	switch req.Status {
	case models.GameStatusPending, models.GameStatusApproved, models.GameStatusRejected:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be pending, approved, or rejected"})
	}

	res := s.DB.Model(&models.Game{}).Where("id = ?", c.Params("id")).Update("status", req.Status)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update status"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}

	log.Printf("[CATALOG] game %s set to %s by %s", c.Params("id"), req.Status, userIDFromLocals(c))
	return c.JSON(fiber.Map{"status": req.Status})
}

// DeleteGame soft-deletes a game.
func (s *CatalogService) DeleteGame(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Game{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete game"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadCover uploads a cover image to the public bucket and stores its URL.
func (s *CatalogService) UploadCover(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	coverFile, err := c.FormFile("cover")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cover is required"})
	}

	ext := filepath.Ext(coverFile.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "covers/" + uuid.NewString() + ext
	coverURL, err := s.Store.UploadPublicAsset(c.UserContext(), coverFile, key)
	if err != nil {
		log.Printf("[CATALOG] cover upload failed for game %s: %v", game.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload cover"})
	}

	game.CoverURL = coverURL
	if err := s.DB.Save(&game).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update game"})
	}
	return c.JSON(game)
}

// AddDLC attaches a DLC to an existing game.
func (s *CatalogService) AddDLC(c *fiber.Ctx) error {
	var game models.Game
	if err := s.DB.First(&game, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	dlc := models.DLC{ID: uuid.NewString(), GameID: game.ID, Name: req.Name, Price: req.Price}
	if err := s.DB.Create(&dlc).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save DLC"})
	}
	return c.Status(fiber.StatusCreated).JSON(dlc)
}

// RegisterDownload uploads a game binary to the private bucket and registers
// it as the download target for (slug, kind, device). Older registrations for
// the same triple stay in place; the issuance flow picks the newest.
func (s *CatalogService) RegisterDownload(c *fiber.Ctx) error {
	gameSlug := c.Params("slug")

	var game models.Game
	if err := s.DB.First(&game, "slug = ?", gameSlug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch game"})
	}

	kind := strings.TrimSpace(c.FormValue("kind"))
	device := strings.TrimSpace(c.FormValue("device"))
	if kind != models.DownloadKindFull && kind != models.DownloadKindDemo {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be 'full' or 'demo'"})
	}
	if device == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "device is required"})
	}

	binaryFile, err := c.FormFile("binary")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "binary is required"})
	}

	ext := filepath.Ext(binaryFile.Filename)
	if ext == "" {
		ext = ".bin"
	}
	key := fmt.Sprintf("%s/%s/%s/%s%s", gameSlug, kind, device, uuid.NewString(), ext)
	if _, err := s.Store.UploadArtifact(c.UserContext(), binaryFile, key); err != nil {
		log.Printf("[CATALOG] binary upload failed for game=%s kind=%s device=%s: %v", gameSlug, kind, device, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload binary"})
	}

	target := models.GameDownload{
		ID:          uuid.NewString(),
		GameSlug:    gameSlug,
		Kind:        kind,
		Device:      device,
		StoragePath: key,
		FileName:    binaryFile.Filename,
		MimeType:    binaryFile.Header.Get("Content-Type"),
		CreatedBy:   userIDFromLocals(c),
	}
	if err := s.DB.Create(&target).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to register download"})
	}

	log.Printf("[CATALOG] ✅ registered download game=%s kind=%s device=%s key=%s", gameSlug, kind, device, key)
	return c.Status(fiber.StatusCreated).JSON(target)
}

// ListDownloadTargets is the admin view of registered targets for a game.
func (s *CatalogService) ListDownloadTargets(c *fiber.Ctx) error {
	var targets []models.GameDownload
	err := s.DB.Where("game_slug = ?", c.Params("slug")).
		Order("created_at DESC").
		Find(&targets).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch download targets"})
	}
	return c.JSON(targets)
}

func userIDFromLocals(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
