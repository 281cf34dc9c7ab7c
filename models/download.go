// models/download.go
package models

import "time"

const (
	DownloadKindFull = "full"
	DownloadKindDemo = "demo"
)

// GameDownload maps (game_slug, kind, device) to an object key in the private
// artifact bucket. Re-registering the same triple adds a new row; the most
// recently created row is authoritative.
type GameDownload struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	GameSlug    string    `json:"game_slug" gorm:"index:idx_game_downloads_target;not null"`
	Kind        string    `json:"kind" gorm:"index:idx_game_downloads_target;not null"` // full | demo
	Device      string    `json:"device" gorm:"index:idx_game_downloads_target;not null"`
	StoragePath string    `json:"storage_path" gorm:"not null"`
	FileName    string    `json:"file_name,omitempty"`
	MimeType    string    `json:"mime_type,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
