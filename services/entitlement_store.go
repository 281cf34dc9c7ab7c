// neon-store-backend/services/entitlement_store.go
package services

import (
	"context"
	"errors"
	"strings"

	"neon-store-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDemoAlreadyClaimed marks a demo-claim insert rejected by the unique
// index on (user_id, game_slug). Callers treat it as "claim exists", not as
// a failure.
var ErrDemoAlreadyClaimed = errors.New("demo already claimed")

// GormEntitlementStore backs EntitlementStore with the storefront database.
type GormEntitlementStore struct {
	DB *gorm.DB
}

func NewEntitlementStore(db *gorm.DB) *GormEntitlementStore {
	return &GormEntitlementStore{DB: db}
}

func (s *GormEntitlementStore) FindPurchase(ctx context.Context, userID, gameSlug string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND game_slug = ?", userID, gameSlug).
		First(&purchase).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *GormEntitlementStore) FindDemoClaim(ctx context.Context, userID, gameSlug string) (*models.DemoClaim, error) {
	var claim models.DemoClaim
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND game_slug = ?", userID, gameSlug).
		First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (s *GormEntitlementStore) InsertDemoClaim(ctx context.Context, userID, gameSlug string) error {
	claim := models.DemoClaim{
		ID:       uuid.NewString(),
		UserID:   userID,
		GameSlug: gameSlug,
	}
	if err := s.DB.WithContext(ctx).Create(&claim).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDemoAlreadyClaimed
		}
		return err
	}
	return nil
}

func (s *GormEntitlementStore) FindLatestDownloadTarget(ctx context.Context, gameSlug, kind, device string) (*models.GameDownload, error) {
	var target models.GameDownload
	err := s.DB.WithContext(ctx).
		Where("game_slug = ? AND kind = ? AND device = ?", gameSlug, kind, device).
		Order("created_at DESC").
		First(&target).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// isUniqueViolation matches postgres 23505 and gorm's translated error;
// the string check covers the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
