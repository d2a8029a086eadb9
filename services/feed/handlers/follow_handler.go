package handlers

import (
	"net/http"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/queue"
	"makerhub/services/feed/repository"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followRepo  repository.FollowRepository
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewFollowHandler(followRepo repository.FollowRepository, queueClient *queue.Client, logger *logger.Logger) *FollowHandler {
	return &FollowHandler{
		followRepo:  followRepo,
		queueClient: queueClient,
		logger:      logger,
	}
}

// GetFollowStatus godoc
// @Summary      Get follow status
// @Description  Check whether the caller follows the given user
// @Tags         follows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /users/{id}/follow [get]
func (h *FollowHandler) GetFollowStatus(c *gin.Context) {
	followerID := c.GetString("user_id")
	followingID := c.Param("id")

	isFollowing, err := h.followRepo.IsFollowing(followerID, followingID)
	if err != nil {
		h.logger.Error("Failed to check follow status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow status"})
		return
	}

	followers, err := h.followRepo.CountFollowers(followingID)
	if err != nil {
		h.logger.Error("Failed to count followers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"is_following": isFollowing, "followers": followers})
}

// ToggleFollow godoc
// @Summary      Toggle follow
// @Description  Follow the user if not following, unfollow if already following
// @Tags         follows
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /users/{id}/follow [post]
func (h *FollowHandler) ToggleFollow(c *gin.Context) {
	followerID := c.GetString("user_id")
	followingID := c.Param("id")

	if followerID == followingID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	isFollowing, err := h.followRepo.IsFollowing(followerID, followingID)
	if err != nil {
		h.logger.Error("Failed to check follow status: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
		return
	}

	if isFollowing {
		if err := h.followRepo.Delete(followerID, followingID); err != nil {
			h.logger.Error("Failed to unfollow: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
			return
		}
	} else {
		follow := &models.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
		}
		if err := h.followRepo.Create(follow); err != nil {
			h.logger.Error("Failed to follow: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle follow"})
			return
		}

		if h.queueClient != nil {
			go func() {
				task := map[string]interface{}{
					"type":     string(models.NotificationTypeFollow),
					"user_id":  followingID,
					"actor_id": followerID,
					"priority": 1,
				}
				if err := h.queueClient.PublishNotificationTask(task); err != nil {
					h.logger.Error("Failed to publish follow notification: %v", err)
				}
			}()
		}
	}

	c.JSON(http.StatusOK, gin.H{"is_following": !isFollowing})
}
