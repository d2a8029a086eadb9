package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/token"
	"makerhub/services/wallet/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// orderTTL is how long an initiated top-up order stays verifiable.
const orderTTL = 15 * time.Minute

// PaymentHandler implements the mock top-up flow. It only works with
// demo mode enabled, there is no real payment provider behind it.
type PaymentHandler struct {
	walletRepo  repository.WalletRepository
	redisClient *redis.Client
	demoMode    bool
	logger      *logger.Logger
}

func NewPaymentHandler(walletRepo repository.WalletRepository, redisClient *redis.Client, demoMode bool, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		walletRepo:  walletRepo,
		redisClient: redisClient,
		demoMode:    demoMode,
		logger:      logger,
	}
}

type InitiateTopUpRequest struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}

type VerifyTopUpRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
}

// InitiateTopUp godoc
// @Summary      Start a coin top-up
// @Description  Create a pending mock order. Returns 503 unless demo mode is enabled.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body InitiateTopUpRequest true "Amount of coins"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /wallet/topup/initiate [post]
func (h *PaymentHandler) InitiateTopUp(c *gin.Context) {
	if !h.demoMode {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments are not available"})
		return
	}

	var req InitiateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := token.GenerateToken()
	if err != nil {
		h.logger.Error("Failed to generate order id: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	key := orderKey(c.GetString("user_id"), orderID)
	if err := h.redisClient.Set(context.Background(), key, req.Amount, orderTTL).Err(); err != nil {
		h.logger.Error("Failed to store pending order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_id":   orderID,
		"amount":     req.Amount,
		"expires_in": int(orderTTL.Seconds()),
	})
}

// VerifyTopUp godoc
// @Summary      Verify a pending top-up
// @Description  Settle a pending mock order and credit the coins. Any payment_id settles the order in demo mode. Returns 503 unless demo mode is enabled.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body VerifyTopUpRequest true "Order ID from the initiate step plus the mock payment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /wallet/topup/verify [post]
func (h *PaymentHandler) VerifyTopUp(c *gin.Context) {
	if !h.demoMode {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Payments are not available"})
		return
	}

	var req VerifyTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	key := orderKey(userID, req.OrderID)

	ctx := context.Background()
	amount, err := h.redisClient.Get(ctx, key).Int()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown or expired order"})
		return
	}

	// Consume the order before crediting so a retry cannot settle the
	// same order twice
	if err := h.redisClient.Del(ctx, key).Err(); err != nil {
		h.logger.Error("Failed to consume order: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}

	user, err := h.walletRepo.GetUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := h.walletRepo.Credit(userID, amount); err != nil {
		h.logger.Error("Failed to credit coins: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}

	h.logger.Info("Demo top-up settled: order %s payment %s user %s amount %d", req.OrderID, req.PaymentID, userID, amount)

	txn := &models.Transaction{
		UserID:        userID,
		Type:          models.TransactionTypeTopUp,
		Amount:        amount,
		BalanceBefore: user.Coin,
		BalanceAfter:  user.Coin + amount,
	}
	if err := h.walletRepo.CreateTransaction(txn); err != nil {
		h.logger.Error("Failed to record top-up transaction: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"coin": user.Coin + amount, "transaction": txn})
}

func orderKey(userID, orderID string) string {
	return fmt.Sprintf("topup_order:%s:%s", userID, orderID)
}
