// models/purchase.go
package models

import "time"

const (
	OrderStatusComplete = "complete"
	OrderStatusPreorder = "preorder"
)

// Purchase = user owns a game (checkout is simulated, no payment rails).
// Existence of at least one row per (user_id, game_slug) is what the
// download flow treats as proof of ownership.
type Purchase struct {
	ID                  string     `json:"id" gorm:"primaryKey"`
	UserID              string     `json:"user_id" gorm:"index:idx_purchases_user_game;not null"`
	GameSlug            string     `json:"game_slug" gorm:"index:idx_purchases_user_game;not null"`
	Edition             string     `json:"edition"`
	IsPreorder          bool       `json:"is_preorder"`
	PreorderReleaseDate *time.Time `json:"preorder_release_date,omitempty"`
	OrderStatus         string     `json:"order_status" gorm:"default:'complete'"` // complete | preorder
	CreatedAt           time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// DemoClaim = user claimed the one-time demo for a game.
// The unique index on (user_id, game_slug) is the sole enforcement point for
// "one demo per user per game"; concurrent first claims race on it and
// exactly one insert wins.
type DemoClaim struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_demo_claims_user_game;not null"`
	GameSlug  string    `json:"game_slug" gorm:"uniqueIndex:idx_demo_claims_user_game;not null"`
	ClaimedAt time.Time `json:"claimed_at" gorm:"autoCreateTime"`
}
