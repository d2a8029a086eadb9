package repository

import (
	"makerhub/pkg/models"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdatePassword(userID, hashedPassword string) error
	SetVerified(userID string) error
	SetGithubToken(userID, token string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdatePassword(userID, hashedPassword string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("password", hashedPassword).Error
}

func (r *userRepository) SetVerified(userID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("verified", true).Error
}

func (r *userRepository) SetGithubToken(userID, token string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("github_token", token).Error
}
