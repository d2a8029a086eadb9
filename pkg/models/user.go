package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// IsAdmin reports whether the role carries admin privileges.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r UserRole) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

type User struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null" json:"email"`
	Username    string         `gorm:"uniqueIndex;not null" json:"username"`
	Password    string         `gorm:"not null" json:"-"`
	Role        UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	Coin        int            `gorm:"default:0" json:"coin"` // Never goes negative, debits are conditional
	GithubToken string         `json:"-"`                     // Delegated token for the repo proxy
	Verified    bool           `gorm:"default:false" json:"verified"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
