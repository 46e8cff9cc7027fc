package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SecretMessage is the single per-user secret. Writes are upserts keyed on
// UserID; no history is kept.
type SecretMessage struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;uniqueIndex;not null"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (m *SecretMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
