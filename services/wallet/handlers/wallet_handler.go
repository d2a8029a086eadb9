package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/queue"
	"makerhub/services/wallet/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type WalletHandler struct {
	walletRepo  repository.WalletRepository
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewWalletHandler(walletRepo repository.WalletRepository, queueClient *queue.Client, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletRepo:  walletRepo,
		queueClient: queueClient,
		logger:      logger,
	}
}

// GetWallet godoc
// @Summary      Get wallet balance
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /wallet [get]
func (h *WalletHandler) GetWallet(c *gin.Context) {
	user, err := h.walletRepo.GetUser(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coin": user.Coin})
}

// PurchaseProject godoc
// @Summary      Purchase a project
// @Description  Spend coins to unlock a paid or premium project
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id path string true "Project ID"
// @Success      200  {object}  models.Transaction
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /wallet/purchase/{project_id} [post]
func (h *WalletHandler) PurchaseProject(c *gin.Context) {
	userID := c.GetString("user_id")
	projectID := c.Param("project_id")

	project, err := h.walletRepo.GetProject(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		h.logger.Error("Failed to load project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase"})
		return
	}

	if project.Category == models.CategoryFree {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Free projects need no purchase"})
		return
	}
	if project.OwnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot purchase your own project"})
		return
	}

	owned, err := h.walletRepo.HasPurchase(userID, projectID)
	if err != nil {
		h.logger.Error("Failed to check purchase: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase"})
		return
	}
	if owned {
		c.JSON(http.StatusConflict, gin.H{"error": "Project already purchased"})
		return
	}

	txn, err := h.walletRepo.PurchaseProject(userID, project)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient coins"})
			return
		}
		h.logger.Error("Failed to purchase project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase"})
		return
	}

	if h.queueClient != nil {
		go func() {
			task := map[string]interface{}{
				"type":       string(models.NotificationTypePurchase),
				"user_id":    project.OwnerID,
				"actor_id":   userID,
				"subject_id": project.ID,
				"priority":   2,
			}
			if err := h.queueClient.PublishNotificationTask(task); err != nil {
				h.logger.Error("Failed to publish purchase notification: %v", err)
			}
		}()
	}

	c.JSON(http.StatusOK, txn)
}

// GetTransactions godoc
// @Summary      List wallet transactions
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c *gin.Context) {
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

	txns, err := h.walletRepo.GetTransactions(c.GetString("user_id"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": txns, "count": len(txns)})
}
