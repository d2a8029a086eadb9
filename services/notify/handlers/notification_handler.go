package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/services/notify/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	notificationRepo repository.NotificationRepository
	logger           *logger.Logger
}

func NewNotificationHandler(notificationRepo repository.NotificationRepository, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListNotifications godoc
// @Summary      List notifications
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of notifications"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := c.GetString("user_id")

	limit := 20
	offset := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	notifications, err := h.notificationRepo.GetByUserID(userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list notifications: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	unread, err := h.notificationRepo.CountUnread(userID)
	if err != nil {
		h.logger.Error("Failed to count unread: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread": unread})
}

// MarkRead godoc
// @Summary      Mark notification as read
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notificationRepo.MarkRead(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		h.logger.Error("Failed to mark notification read: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

// HandleTask persists a queued follow or purchase event as a
// notification row. It is the consumer side of the broker contract,
// errors make the broker redeliver the task.
func (h *NotificationHandler) HandleTask(task map[string]interface{}) error {
	eventType, _ := task["type"].(string)
	userID, _ := task["user_id"].(string)
	actorID, _ := task["actor_id"].(string)

	// A malformed task will never become valid, drop it instead of
	// letting the broker redeliver it forever
	if userID == "" || actorID == "" {
		h.logger.Warn("Dropping notification task missing user_id or actor_id: %v", task)
		return nil
	}

	notification := &models.Notification{
		UserID:  userID,
		ActorID: actorID,
	}

	switch models.NotificationType(eventType) {
	case models.NotificationTypeFollow:
		notification.Type = models.NotificationTypeFollow
	case models.NotificationTypePurchase:
		notification.Type = models.NotificationTypePurchase
		subjectID, _ := task["subject_id"].(string)
		if subjectID == "" {
			h.logger.Warn("Dropping purchase notification missing subject_id: %v", task)
			return nil
		}
		notification.SubjectID = subjectID
	default:
		h.logger.Warn("Dropping notification task with unknown type %q", eventType)
		return nil
	}

	if err := h.notificationRepo.Create(notification); err != nil {
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	h.logger.Info("Stored %s notification for user %s", notification.Type, userID)
	return nil
}
