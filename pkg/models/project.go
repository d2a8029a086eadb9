package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectCategory string

const (
	CategoryFree    ProjectCategory = "free"
	CategoryPaid    ProjectCategory = "paid"
	CategoryPremium ProjectCategory = "premium"
)

type Project struct {
	ID          string          `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID     string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Category    ProjectCategory `gorm:"type:varchar(10);not null;default:'free';index" json:"category"`
	Price       int             `gorm:"default:0" json:"price"` // Coins, 0 for free projects
	FileKey     string          `gorm:"not null" json:"-"`
	FileName    string          `json:"file_name"`
	FileHash    string          `json:"file_hash"` // SHA-256, computed at save time
	FileSize    int64           `json:"file_size"`
	Downloads   int             `gorm:"default:0" json:"downloads"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
