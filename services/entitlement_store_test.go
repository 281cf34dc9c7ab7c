package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"neon-store-backend/models"
	"neon-store-backend/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "store.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Purchase{},
		&models.DemoClaim{},
		&models.GameDownload{},
	))
	return db
}

func TestFindPurchaseDistinguishesAbsenceFromFault(t *testing.T) {
	store := services.NewEntitlementStore(newTestDB(t))
	ctx := context.Background()

	purchase, err := store.FindPurchase(ctx, "U1", "cyber-racer")
	require.NoError(t, err)
	assert.Nil(t, purchase)

	require.NoError(t, store.DB.Create(&models.Purchase{
		ID: uuid.NewString(), UserID: "U1", GameSlug: "cyber-racer", Edition: "standard",
	}).Error)

	purchase, err = store.FindPurchase(ctx, "U1", "cyber-racer")
	require.NoError(t, err)
	require.NotNil(t, purchase)
	assert.Equal(t, "U1", purchase.UserID)

	// Other users and other games stay invisible
	purchase, err = store.FindPurchase(ctx, "U2", "cyber-racer")
	require.NoError(t, err)
	assert.Nil(t, purchase)
	purchase, err = store.FindPurchase(ctx, "U1", "crystal-realm")
	require.NoError(t, err)
	assert.Nil(t, purchase)
}

func TestInsertDemoClaimEnforcesUniqueness(t *testing.T) {
	store := services.NewEntitlementStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.InsertDemoClaim(ctx, "U1", "stellar-blitz"))

	err := store.InsertDemoClaim(ctx, "U1", "stellar-blitz")
	assert.ErrorIs(t, err, services.ErrDemoAlreadyClaimed)

	// Different user or game is a fresh claim, not a conflict
	require.NoError(t, store.InsertDemoClaim(ctx, "U2", "stellar-blitz"))
	require.NoError(t, store.InsertDemoClaim(ctx, "U1", "cyber-racer"))

	var count int64
	require.NoError(t, store.DB.Model(&models.DemoClaim{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestInsertDemoClaimConcurrentRace(t *testing.T) {
	store := services.NewEntitlementStore(newTestDB(t))
	ctx := context.Background()

	const n = 10
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.InsertDemoClaim(ctx, "U1", "stellar-blitz")
		}(i)
	}
	wg.Wait()

	winners := 0
	for i, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, services.ErrDemoAlreadyClaimed, "goroutine %d saw an unexpected error", i)
	}
	assert.Equal(t, 1, winners)

	var count int64
	require.NoError(t, store.DB.Model(&models.DemoClaim{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFindDemoClaimRoundTrip(t *testing.T) {
	store := services.NewEntitlementStore(newTestDB(t))
	ctx := context.Background()

	claim, err := store.FindDemoClaim(ctx, "U1", "stellar-blitz")
	require.NoError(t, err)
	assert.Nil(t, claim)

	require.NoError(t, store.InsertDemoClaim(ctx, "U1", "stellar-blitz"))

	claim, err = store.FindDemoClaim(ctx, "U1", "stellar-blitz")
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, "stellar-blitz", claim.GameSlug)
	assert.False(t, claim.ClaimedAt.IsZero())
}

func TestFindLatestDownloadTargetOrdering(t *testing.T) {
	store := services.NewEntitlementStore(newTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-2 * time.Hour).Truncate(time.Second)
	rows := []models.GameDownload{
		{ID: uuid.NewString(), GameSlug: "cyber-racer", Kind: "full", Device: "windows", StoragePath: "cyber-racer/full/windows/v1.zip", CreatedAt: base},
		{ID: uuid.NewString(), GameSlug: "cyber-racer", Kind: "full", Device: "windows", StoragePath: "cyber-racer/full/windows/v2.zip", CreatedAt: base.Add(time.Hour)},
		{ID: uuid.NewString(), GameSlug: "cyber-racer", Kind: "full", Device: "mac", StoragePath: "cyber-racer/full/mac/v1.zip", CreatedAt: base.Add(90 * time.Minute)},
	}
	for i := range rows {
		require.NoError(t, store.DB.Create(&rows[i]).Error)
	}

	target, err := store.FindLatestDownloadTarget(ctx, "cyber-racer", "full", "windows")
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "cyber-racer/full/windows/v2.zip", target.StoragePath)

	target, err = store.FindLatestDownloadTarget(ctx, "cyber-racer", "full", "linux")
	require.NoError(t, err)
	assert.Nil(t, target)

	target, err = store.FindLatestDownloadTarget(ctx, "cyber-racer", "demo", "windows")
	require.NoError(t, err)
	assert.Nil(t, target)
}

func TestErrDemoAlreadyClaimedIsDistinct(t *testing.T) {
	assert.False(t, errors.Is(services.ErrDemoAlreadyClaimed, gorm.ErrRecordNotFound))
}
