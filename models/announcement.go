// models/announcement.go
package models

import "time"

// Announcement is a storefront banner managed from the admin console.
type Announcement struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	Alt       string    `json:"alt"`
	Href      string    `json:"href,omitempty"`
	Order     int       `json:"order"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
