package services_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"neon-store-backend/models"
	"neon-store-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCatalogApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(
		&models.Game{}, &models.GameScreenshot{}, &models.GameTag{},
		&models.Edition{}, &models.DLC{},
	))
	svc := services.NewCatalogService(db, nil)

	app := fiber.New()
	app.Get("/games", svc.ListGames)
	app.Get("/games/:slug", svc.GetGameBySlug)
	app.Post("/admin/games", svc.CreateGame)
	app.Patch("/admin/games/:id/status", svc.SetGameStatus)
	app.Post("/admin/games/:id/dlcs", svc.AddDLC)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestCreateGameSlugAndVariants(t *testing.T) {
	app, db := newCatalogApp(t)

	body := `{
		"title": "Cyber Racer: Neon Drift",
		"description": "Drift through neon-lit streets.",
		"price": 29.99,
		"tags": ["Racing", "Cyberpunk"],
		"editions": [
			{"name": "Standard", "price": 29.99, "includes_base": true},
			{"name": "Deluxe Edition", "price": 44.99, "includes_base": true}
		],
		"dlcs": [{"name": "Original Soundtrack", "price": 6.99}]
	}`
	status, raw := postJSON(t, app, "/admin/games", body)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var game models.Game
	require.NoError(t, json.Unmarshal(raw, &game))
	assert.Equal(t, "cyber-racer-neon-drift", game.Slug)
	assert.Equal(t, models.GameStatusPending, game.Status)
	assert.Len(t, game.Tags, 2)
	assert.Len(t, game.Editions, 2)
	assert.Len(t, game.DLCs, 1)

	// Same title again gets a distinct slug
	status, raw = postJSON(t, app, "/admin/games", body)
	require.Equal(t, fiber.StatusCreated, status, string(raw))
	var second models.Game
	require.NoError(t, json.Unmarshal(raw, &second))
	assert.NotEqual(t, game.Slug, second.Slug)
	assert.True(t, strings.HasPrefix(second.Slug, "cyber-racer-neon-drift-"))

	var count int64
	require.NoError(t, db.Model(&models.Game{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestListGamesOnlyApproved(t *testing.T) {
	app, db := newCatalogApp(t)

	for slug, gameStatus := range map[string]string{
		"cyber-racer":   models.GameStatusApproved,
		"crystal-realm": models.GameStatusPending,
		"stellar-blitz": models.GameStatusRejected,
	} {
		require.NoError(t, db.Create(&models.Game{
			ID: uuid.NewString(), Slug: slug, Title: slug, Status: gameStatus,
		}).Error)
	}

	req := httptest.NewRequest("GET", "/games", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var games []models.Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	require.Len(t, games, 1)
	assert.Equal(t, "cyber-racer", games[0].Slug)

	// Pending games are invisible by slug too
	req = httptest.NewRequest("GET", "/games/crystal-realm", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSetGameStatus(t *testing.T) {
	app, db := newCatalogApp(t)

	game := models.Game{ID: uuid.NewString(), Slug: "cyber-racer", Title: "Cyber Racer", Status: models.GameStatusPending}
	require.NoError(t, db.Create(&game).Error)

	req := httptest.NewRequest("PATCH", "/admin/games/"+game.ID+"/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded models.Game
	require.NoError(t, db.First(&reloaded, "id = ?", game.ID).Error)
	assert.Equal(t, models.GameStatusApproved, reloaded.Status)

	// Unknown status is rejected
	req = httptest.NewRequest("PATCH", "/admin/games/"+game.ID+"/status", strings.NewReader(`{"status":"published"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAddDLC(t *testing.T) {
	app, db := newCatalogApp(t)

	game := models.Game{ID: uuid.NewString(), Slug: "crystal-realm", Title: "Crystal Realm", Status: models.GameStatusApproved}
	require.NoError(t, db.Create(&game).Error)

	status, raw := postJSON(t, app, "/admin/games/"+game.ID+"/dlcs", `{"name":"Shards of the Ancients","price":14.99}`)
	require.Equal(t, fiber.StatusCreated, status, string(raw))

	var dlc models.DLC
	require.NoError(t, json.Unmarshal(raw, &dlc))
	assert.Equal(t, game.ID, dlc.GameID)
	assert.Equal(t, "Shards of the Ancients", dlc.Name)

	status, _ = postJSON(t, app, "/admin/games/"+uuid.NewString()+"/dlcs", `{"name":"X","price":1}`)
	assert.Equal(t, fiber.StatusNotFound, status)
}
