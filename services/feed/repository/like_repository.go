package repository

import (
	"time"

	"makerhub/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeCounts is recomputed by scanning the rows for a post, counts are not
// maintained incrementally.
type LikeCounts struct {
	Likes    int64 `json:"like_count"`
	Dislikes int64 `json:"dislike_count"`
}

type LikeRepository interface {
	// Upsert writes the vote for (user, post); a later vote overwrites an
	// earlier one. The backing store's single-statement atomicity is the
	// only concurrency control.
	Upsert(like *models.Like) error
	Counts(postID string) (*LikeCounts, error)
	GetValue(userID, postID string) (int, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Upsert(like *models.Like) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      like.Value,
			"updated_at": time.Now(),
		}),
	}).Create(like).Error
}

func (r *likeRepository) Counts(postID string) (*LikeCounts, error) {
	var counts LikeCounts
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND value = ?", postID, 1).Count(&counts.Likes).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Like{}).Where("post_id = ? AND value = ?", postID, -1).Count(&counts.Dislikes).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *likeRepository) GetValue(userID, postID string) (int, error) {
	var like models.Like
	if err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return like.Value, nil
}
