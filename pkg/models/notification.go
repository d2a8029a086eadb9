package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeFollow   NotificationType = "follow"
	NotificationTypePurchase NotificationType = "purchase"
)

type Notification struct {
	ID        string           `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	ActorID   string           `gorm:"type:uuid" json:"actor_id"`
	SubjectID string           `gorm:"type:uuid" json:"subject_id,omitempty"` // Project id for purchases
	Read      bool             `gorm:"default:false" json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
