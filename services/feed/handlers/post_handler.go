package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/services/feed/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type PostHandler struct {
	postRepo    repository.PostRepository
	likeRepo    repository.LikeRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewPostHandler(postRepo repository.PostRepository, likeRepo repository.LikeRepository, redisClient *redis.Client, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postRepo:    postRepo,
		likeRepo:    likeRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title string `json:"title" binding:"required,max=200"`
	Body  string `json:"body"`
}

type LikeRequest struct {
	Value int `json:"value" binding:"required"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Create a post in the feed
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post content"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := &models.Post{
		AuthorID: userID,
		Title:    req.Title,
		Body:     req.Body,
	}

	if err := h.postRepo.Create(post); err != nil {
		h.logger.Error("Failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  Get the feed, newest first
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        limit query int false "Number of posts"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
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

	posts, err := h.postRepo.List(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts, "count": len(posts)})
}

// GetPost godoc
// @Summary      Get post by ID
// @Description  Get post details and track a view per user
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  models.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	postID := c.Param("id")

	post, err := h.postRepo.GetByID(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	// Count at most one view per user per year
	if userID := c.GetString("user_id"); userID != "" && h.redisClient != nil {
		go h.trackView(postID, userID)
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) trackView(postID, userID string) {
	ctx := context.Background()
	viewKey := fmt.Sprintf("post_viewed:%s:%s", postID, userID)

	set, err := h.redisClient.SetNX(ctx, viewKey, "1", 365*24*time.Hour).Result()
	if err != nil {
		h.logger.Error("Failed to set view key: %v", err)
		return
	}
	if set {
		if err := h.postRepo.IncrementViews(postID); err != nil {
			h.logger.Error("Failed to increment views: %v", err)
		}
	}
}

// DeletePost godoc
// @Summary      Delete post
// @Description  Delete a post. Only the author can delete their own posts.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString("user_id")

	post, err := h.postRepo.GetByID(postID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if post.AuthorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete this post"})
		return
	}

	if err := h.postRepo.Delete(postID); err != nil {
		h.logger.Error("Failed to delete post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// LikePost godoc
// @Summary      Vote on a post
// @Description  Upsert a signed vote (1 or -1) for the post. A later vote overwrites an earlier one.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body LikeRequest true "Vote value, 1 or -1"
// @Success      200  {object}  repository.LikeCounts
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) LikePost(c *gin.Context) {
	postID := c.Param("id")
	userID := c.GetString("user_id")

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Reject anything outside {1, -1} before touching storage
	if req.Value != 1 && req.Value != -1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be 1 or -1"})
		return
	}

	exists, err := h.postRepo.Exists(postID)
	if err != nil {
		h.logger.Error("Failed to check post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	like := &models.Like{
		UserID: userID,
		PostID: postID,
		Value:  req.Value,
	}
	if err := h.likeRepo.Upsert(like); err != nil {
		h.logger.Error("Failed to upsert like: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	counts, err := h.likeRepo.Counts(postID)
	if err != nil {
		h.logger.Error("Failed to count likes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

// GetLikeCounts godoc
// @Summary      Get vote counts
// @Description  Get like and dislike counts for a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  repository.LikeCounts
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/likes [get]
func (h *PostHandler) GetLikeCounts(c *gin.Context) {
	postID := c.Param("id")

	exists, err := h.postRepo.Exists(postID)
	if err != nil || !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	counts, err := h.likeRepo.Counts(postID)
	if err != nil {
		h.logger.Error("Failed to count likes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch counts"})
		return
	}

	c.JSON(http.StatusOK, counts)
}
