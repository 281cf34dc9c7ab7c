// workers/profile_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"neon-store-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// remoteUser matches the identity provider's admin user listing.
type remoteUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	} `json:"user_metadata"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listUsersResponse struct {
	Users []remoteUser `json:"users"`
}

// ProfileSyncWorker mirrors identity-provider profiles into the local
// profiles table so storefront reads never hit the auth service.
type ProfileSyncWorker struct {
	db         *gorm.DB
	interval   time.Duration
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewProfileSyncWorker(db *gorm.DB, authBaseURL, serviceKey string) *ProfileSyncWorker {
	return &ProfileSyncWorker{
		db:         db,
		interval:   5 * time.Minute,
		baseURL:    authBaseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *ProfileSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Profile Sync Worker (identity provider → profiles)…")
	go w.run(ctx)
}

func (w *ProfileSyncWorker) run(ctx context.Context) {
	if err := w.syncBatch(ctx); err != nil {
		log.Printf("⚠️ Initial profile sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx); err != nil {
				log.Printf("❌ Profile sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Profile Sync Worker stopped")
			return
		}
	}
}

func (w *ProfileSyncWorker) syncBatch(ctx context.Context) error {
	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid auth base URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath("/auth/v1/admin/users").String()

	req, err := http.NewRequestWithContext(ctx, "GET", endpointURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", endpointURL, err)
	}
	req.Header.Set("apikey", w.serviceKey)
	req.Header.Set("Authorization", "Bearer "+w.serviceKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to identity provider failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("identity provider non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response listUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode identity provider response: %w", err)
	}

	if len(response.Users) == 0 {
		return nil
	}

	var upsertCount, errorCount int
	for _, u := range response.Users {
		profile := models.Profile{
			ID:          u.ID,
			DisplayName: u.UserMetadata.DisplayName,
			AvatarURL:   u.UserMetadata.AvatarURL,
			CreatedAt:   u.CreatedAt,
			UpdatedAt:   u.UpdatedAt,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "avatar_url", "updated_at"}),
		}).Create(&profile).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert profile (id=%q): %v", u.ID, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d profile(s) (%d upserted, %d errors)", len(response.Users), upsertCount, errorCount)
	return nil
}
