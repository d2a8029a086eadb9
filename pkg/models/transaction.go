package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeTopUp    TransactionType = "topup"
	TransactionTypePurchase TransactionType = "purchase"
	TransactionTypeRefund   TransactionType = "refund"
)

type Transaction struct {
	ID            string          `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	ProjectID     string          `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Type          TransactionType `gorm:"type:varchar(20);not null" json:"type"`
	Amount        int             `gorm:"not null" json:"amount"`
	BalanceBefore int             `json:"balance_before"`
	BalanceAfter  int             `json:"balance_after"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
