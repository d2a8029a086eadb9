package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase records that a user unlocked a non-free project. Row existence is
// the sole access-grant signal.
type Purchase struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_pair" json:"user_id"`
	ProjectID string    `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_pair;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
