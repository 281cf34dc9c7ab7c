// models/game.go
package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GameStatusPending  = "pending"
	GameStatusApproved = "approved"
	GameStatusRejected = "rejected"
)

type Game struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	Price       float64 `json:"price" gorm:"default:0"`

	// 🖼️ Media
	CoverURL    string           `json:"cover_url"` // public CDN URL
	Screenshots []GameScreenshot `json:"screenshots" gorm:"foreignKey:GameID"`
	TrailerURL  string           `json:"trailer_url,omitempty"`

	// 🏷️ Browsing metadata
	Tags []GameTag `json:"tags" gorm:"foreignKey:GameID"`

	// 💰 Purchasable variants
	Editions []Edition `json:"editions" gorm:"foreignKey:GameID"`
	DLCs     []DLC     `json:"dlcs" gorm:"foreignKey:GameID"`

	// 🎛️ Moderation state
	Status    string `json:"status" gorm:"default:'pending'"` // pending | approved | rejected
	CreatedBy string `json:"created_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

type GameScreenshot struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"index"`
	URL    string `json:"url"`
	Order  int    `json:"order"`
}

type GameTag struct {
	ID     string `json:"id" gorm:"primaryKey"`
	GameID string `json:"game_id" gorm:"index"`
	Name   string `json:"name" gorm:"not null"`
	Order  int    `json:"order"`
}

// Edition is a purchasable variant of the base game (Standard, Deluxe, ...).
type Edition struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	GameID       string  `json:"game_id" gorm:"index;not null"`
	Name         string  `json:"name" gorm:"not null"`
	Price        float64 `json:"price"`
	IncludesBase bool    `json:"includes_base"`
}

type DLC struct {
	ID     string  `json:"id" gorm:"primaryKey"`
	GameID string  `json:"game_id" gorm:"index;not null"`
	Name   string  `json:"name" gorm:"not null"`
	Price  float64 `json:"price"`
}
