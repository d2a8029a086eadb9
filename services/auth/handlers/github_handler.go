package handlers

import (
	"io"
	"net/http"
	"time"

	"makerhub/pkg/logger"
	"makerhub/services/auth/repository"

	"github.com/gin-gonic/gin"
)

const githubAPIBase = "https://api.github.com"

type GithubHandler struct {
	userRepo   repository.UserRepository
	httpClient *http.Client
	apiBase    string
	logger     *logger.Logger
}

func NewGithubHandler(userRepo repository.UserRepository, logger *logger.Logger) *GithubHandler {
	return &GithubHandler{
		userRepo:   userRepo,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    githubAPIBase,
		logger:     logger,
	}
}

type ConnectGithubRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Connect godoc
// @Summary      Store a delegated GitHub token
// @Description  Attach a GitHub access token to the authenticated user for the repo proxy
// @Tags         github
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConnectGithubRequest true "GitHub access token"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /github/connect [post]
func (h *GithubHandler) Connect(c *gin.Context) {
	userID := c.GetString("user_id")

	var req ConnectGithubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userRepo.SetGithubToken(userID, req.AccessToken); err != nil {
		h.logger.Error("Failed to store github token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "GitHub account connected"})
}

// ListRepos godoc
// @Summary      List GitHub repositories
// @Description  Proxy the user's repository list from GitHub using their delegated token
// @Tags         github
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /github/repos [get]
func (h *GithubHandler) ListRepos(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.GithubToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No GitHub token on account"})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), "GET", h.apiBase+"/user/repos", nil)
	if err != nil {
		h.logger.Error("Failed to build github request: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reach GitHub"})
		return
	}
	req.Header.Set("Authorization", "Bearer "+user.GithubToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("GitHub request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reach GitHub"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "GitHub token rejected"})
		return
	}
	if resp.StatusCode != http.StatusOK {
		h.logger.Error("GitHub returned status %d", resp.StatusCode)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch repositories"})
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logger.Error("Failed to read github response: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch repositories"})
		return
	}

	c.Data(http.StatusOK, "application/json", body)
}
