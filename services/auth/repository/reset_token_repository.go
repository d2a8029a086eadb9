package repository

import (
	"makerhub/pkg/models"

	"gorm.io/gorm"
)

type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	GetByToken(token string) (*models.PasswordResetToken, error)
	Delete(id string) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

func (r *resetTokenRepository) GetByToken(token string) (*models.PasswordResetToken, error) {
	var t models.PasswordResetToken
	if err := r.db.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *resetTokenRepository) Delete(id string) error {
	return r.db.Delete(&models.PasswordResetToken{}, "id = ?", id).Error
}
