package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a directed edge. The follow action is a strict toggle: acting
// twice on the same pair leaves zero rows behind.
type Follow struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingID string    `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair;index" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
