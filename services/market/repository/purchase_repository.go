package repository

import (
	"makerhub/pkg/models"

	"gorm.io/gorm"
)

type PurchaseRepository interface {
	// Exists reports whether the user unlocked the project. Row existence is
	// the sole access-grant signal.
	Exists(userID, projectID string) (bool, error)
	GetByUserID(userID string) ([]*models.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Exists(userID, projectID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *purchaseRepository) GetByUserID(userID string) ([]*models.Purchase, error) {
	var purchases []*models.Purchase
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}
