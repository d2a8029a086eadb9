package handlers

import (
	"net/http"
	"time"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/pkg/token"
	"makerhub/services/auth/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type PasswordHandler struct {
	userRepo  repository.UserRepository
	tokenRepo repository.ResetTokenRepository
	logger    *logger.Logger
}

func NewPasswordHandler(userRepo repository.UserRepository, tokenRepo repository.ResetTokenRepository, logger *logger.Logger) *PasswordHandler {
	return &PasswordHandler{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		logger:    logger,
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required,len=64"`
	Password string `json:"password" binding:"required,min=6"`
}

// ForgotPassword godoc
// @Summary      Request a password reset token
// @Description  Issue a reset token for the account matching the email. The token is valid for 24 hours.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ForgotPasswordRequest true "Account email"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		// No token row is created for unknown emails
		c.JSON(http.StatusNotFound, gin.H{"error": "No account with this email"})
		return
	}

	raw, err := token.GenerateToken()
	if err != nil {
		h.logger.Error("Failed to generate reset token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset token"})
		return
	}

	resetToken := &models.PasswordResetToken{
		Token:   raw,
		UserID:  user.ID,
		Expires: time.Now().Add(models.ResetTokenTTL),
	}
	if err := h.tokenRepo.Create(resetToken); err != nil {
		h.logger.Error("Failed to store reset token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset token"})
		return
	}

	// The token would normally be emailed; delivery is outside this service
	h.logger.Info("Issued password reset token for user %s", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Password reset token issued"})
}

// ResetPassword godoc
// @Summary      Reset a password
// @Description  Set a new password using a previously issued reset token. The token is consumed on success.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ResetPasswordRequest true "Reset token and new password"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resetToken, err := h.tokenRepo.GetByToken(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if resetToken.Expired() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	if err := h.userRepo.UpdatePassword(resetToken.UserID, string(hashedPassword)); err != nil {
		h.logger.Error("Failed to update password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	// Tokens are single use
	if err := h.tokenRepo.Delete(resetToken.ID); err != nil {
		h.logger.Error("Failed to delete consumed reset token: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
