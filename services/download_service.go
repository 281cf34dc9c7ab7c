// neon-store-backend/services/download_service.go
package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"neon-store-backend/models"

	"github.com/gofiber/fiber/v2"
)

// Signed URLs expire 15 minutes after issuance.
const downloadURLTTL = 15 * time.Minute

// URLSigner mints a time-limited URL for one object key in the private
// artifact bucket. *utils.ArtifactStore satisfies it.
type URLSigner interface {
	SignedDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// EntitlementStore holds purchase records, demo claims, and download-target
// registrations. Absence is reported as (nil, nil) — a store fault is a
// different outcome and must stay distinguishable from "not found".
type EntitlementStore interface {
	FindPurchase(ctx context.Context, userID, gameSlug string) (*models.Purchase, error)
	FindDemoClaim(ctx context.Context, userID, gameSlug string) (*models.DemoClaim, error)
	// InsertDemoClaim returns ErrDemoAlreadyClaimed when the unique index on
	// (user_id, game_slug) rejects the row.
	InsertDemoClaim(ctx context.Context, userID, gameSlug string) error
	FindLatestDownloadTarget(ctx context.Context, gameSlug, kind, device string) (*models.GameDownload, error)
}

// DownloadService validates a caller's right to a game binary and issues a
// presigned URL for it. Stateless: nothing is cached between requests, and
// race safety for first-time demo claims is delegated entirely to the store's
// unique constraint.
type DownloadService struct {
	Verifier TokenVerifier
	Store    EntitlementStore
	Signer   URLSigner
}

func NewDownloadService(verifier TokenVerifier, store EntitlementStore, signer URLSigner) *DownloadService {
	return &DownloadService{Verifier: verifier, Store: store, Signer: signer}
}

type issueDownloadRequest struct {
	GameSlug string `json:"game_slug"`
	Kind     string `json:"kind"` // full | demo
	Device   string `json:"device"`
}

// IssueDownload handles POST /downloads/issue.
//
// Order is fixed: bearer token → identity → field presence → entitlement
// branch on kind → latest registration for (slug, kind, device) → presign.
// Each step short-circuits with its own status; collaborator faults always
// come back as 500, never as 403/404.
func (s *DownloadService) IssueDownload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	authHeader := c.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if authHeader == "" || token == authHeader {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing bearer token"})
	}

	identity, err := s.Verifier.Verify(ctx, token)
	if err != nil || identity == nil {
		log.Printf("[DOWNLOAD] auth error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	// A malformed body degrades to an empty one; the field check below
	// rejects it with 400 instead of surfacing a parser fault.
	var req issueDownloadRequest
	if err := c.BodyParser(&req); err != nil {
		req = issueDownloadRequest{}
	}

	gameSlug := strings.TrimSpace(req.GameSlug)
	kind := strings.TrimSpace(req.Kind)
	device := strings.TrimSpace(req.Device)

	if gameSlug == "" || kind == "" || device == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing required fields: game_slug, kind, device"})
	}

	switch kind {
	case models.DownloadKindFull:
		purchase, err := s.Store.FindPurchase(ctx, identity.ID, gameSlug)
		if err != nil {
			log.Printf("[DOWNLOAD] purchase check error for user=%s game=%s: %v", identity.ID, gameSlug, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authorization check failed"})
		}
		if purchase == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No valid purchase for this game"})
		}

	case models.DownloadKindDemo:
		claim, err := s.Store.FindDemoClaim(ctx, identity.ID, gameSlug)
		if err != nil {
			log.Printf("[DOWNLOAD] claim check error for user=%s game=%s: %v", identity.ID, gameSlug, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Authorization check failed"})
		}
		if claim == nil {
			// First claim for this (user, game). Losing the insert race to a
			// concurrent request means the claim exists, so both proceed.
			// Any other insert failure is logged and issuance continues.
			if err := s.Store.InsertDemoClaim(ctx, identity.ID, gameSlug); err != nil && !errors.Is(err, ErrDemoAlreadyClaimed) {
				log.Printf("[DOWNLOAD] ⚠️ demo claim insert failed for user=%s game=%s: %v", identity.ID, gameSlug, err)
			}
		}

	default:
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid kind; expected 'full' or 'demo'"})
	}

	target, err := s.Store.FindLatestDownloadTarget(ctx, gameSlug, kind, device)
	if err != nil {
		log.Printf("[DOWNLOAD] target lookup error for game=%s kind=%s device=%s: %v", gameSlug, kind, device, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to resolve download"})
	}
	if target == nil || strings.TrimSpace(target.StoragePath) == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No download configured for this target"})
	}

	url, err := s.Signer.SignedDownloadURL(ctx, strings.TrimSpace(target.StoragePath), downloadURLTTL)
	if err != nil {
		log.Printf("[DOWNLOAD] presign error for key=%s: %v", target.StoragePath, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create signed URL"})
	}

	return c.JSON(fiber.Map{"url": url})
}
