package repository

import (
	"makerhub/pkg/models"

	"gorm.io/gorm"
)

type FollowRepository interface {
	IsFollowing(followerID, followingID string) (bool, error)
	Create(follow *models.Follow) error
	Delete(followerID, followingID string) error
	CountFollowers(userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) Create(follow *models.Follow) error {
	return r.db.Create(follow).Error
}

func (r *followRepository) Delete(followerID, followingID string) error {
	return r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

func (r *followRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}
