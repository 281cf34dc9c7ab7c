// models/user.go
package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// Profile mirrors the identity provider's user profile locally so storefront
// pages never call the auth service on the read path. Refreshed by the
// profile sync worker.
type Profile struct {
	ID          string    `json:"id" gorm:"primaryKey"` // auth user ID
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UserRole struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"uniqueIndex:idx_user_roles_user_role;not null"`
	Role   string `json:"role" gorm:"uniqueIndex:idx_user_roles_user_role;not null"` // admin | moderator | user
}
