package handlers

import (
	"fmt"
	"net/http"
	"time"

	"makerhub/pkg/logger"
	"makerhub/pkg/token"
	"makerhub/services/auth/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const otpTTL = 10 * time.Minute

type VerifyHandler struct {
	userRepo    repository.UserRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewVerifyHandler(userRepo repository.UserRepository, redisClient *redis.Client, logger *logger.Logger) *VerifyHandler {
	return &VerifyHandler{
		userRepo:    userRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

type ConfirmOTPRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// RequestOTP godoc
// @Summary      Request a verification code
// @Description  Generate a 6-digit OTP for the authenticated user, valid for 10 minutes
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify/request [post]
func (h *VerifyHandler) RequestOTP(c *gin.Context) {
	userID := c.GetString("user_id")

	code, err := token.GenerateOTP()
	if err != nil {
		h.logger.Error("Failed to generate OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate verification code"})
		return
	}

	key := fmt.Sprintf("otp:%s", userID)
	if err := h.redisClient.Set(c.Request.Context(), key, code, otpTTL).Err(); err != nil {
		h.logger.Error("Failed to store OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate verification code"})
		return
	}

	// The code would normally go out by email or SMS
	h.logger.Info("Issued verification code for user %s", userID)
	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// ConfirmOTP godoc
// @Summary      Confirm a verification code
// @Description  Verify the 6-digit OTP and mark the account as verified
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConfirmOTPRequest true "Verification code"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/verify/confirm [post]
func (h *VerifyHandler) ConfirmOTP(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ConfirmOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := fmt.Sprintf("otp:%s", userID)
	stored, err := h.redisClient.Get(c.Request.Context(), key).Result()
	if err != nil || stored != req.Code {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	if err := h.userRepo.SetVerified(userID); err != nil {
		h.logger.Error("Failed to mark user verified: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify account"})
		return
	}

	h.redisClient.Del(c.Request.Context(), key)

	c.JSON(http.StatusOK, gin.H{"message": "Account verified"})
}
