package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ResetTokenTTL = 24 * time.Hour

type PasswordResetToken struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Expires   time.Time `gorm:"not null" json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

func (t *PasswordResetToken) Expired() bool {
	return time.Now().After(t.Expires)
}
