package models

import "time"

// RefreshToken backs sign-out and token rotation: access JWTs stay stateless,
// refresh tokens are server-side state that can actually be revoked.
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    string     `gorm:"type:uuid;index;not null"`
	Token     string     `gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
