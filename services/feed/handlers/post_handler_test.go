package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"makerhub/pkg/logger"
	"makerhub/pkg/models"
	"makerhub/services/feed/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockPostRepository is a mock implementation of repository.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(limit, offset int) ([]*models.Post, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByAuthorID(authorID string, limit, offset int) ([]*models.Post, error) {
	args := m.Called(authorID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) IncrementViews(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockLikeRepository is a mock implementation of repository.LikeRepository
type MockLikeRepository struct {
	mock.Mock
}

func (m *MockLikeRepository) Upsert(like *models.Like) error {
	args := m.Called(like)
	return args.Error(0)
}

func (m *MockLikeRepository) Counts(postID string) (*repository.LikeCounts, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LikeCounts), args.Error(1)
}

func (m *MockLikeRepository) GetValue(userID, postID string) (int, error) {
	args := m.Called(userID, postID)
	return args.Int(0), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePost_Success(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.POST("/posts", func(c *gin.Context) {
		c.Set("user_id", "author-1")
		handler.CreatePost(c)
	})

	postRepo.On("Create", mock.AnythingOfType("*models.Post")).Return(nil)

	w := postJSON(router, "/posts", gin.H{"title": "First build log", "body": "Some details"})

	assert.Equal(t, http.StatusCreated, w.Code)
	postRepo.AssertCalled(t, "Create", mock.MatchedBy(func(p *models.Post) bool {
		return p.AuthorID == "author-1" && p.Title == "First build log"
	}))
}

func TestCreatePost_MissingTitle(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.POST("/posts", func(c *gin.Context) {
		c.Set("user_id", "author-1")
		handler.CreatePost(c)
	})

	w := postJSON(router, "/posts", gin.H{"body": "no title"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	postRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestDeletePost_NotAuthor(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "intruder")
		handler.DeletePost(c)
	})

	postRepo.On("GetByID", "p-1").Return(&models.Post{ID: "p-1", AuthorID: "author-1"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/p-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	postRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeletePost_Author(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", func(c *gin.Context) {
		c.Set("user_id", "author-1")
		handler.DeletePost(c)
	})

	postRepo.On("GetByID", "p-1").Return(&models.Post{ID: "p-1", AuthorID: "author-1"}, nil)
	postRepo.On("Delete", "p-1").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/p-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLikePost_Success(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", "voter-1")
		handler.LikePost(c)
	})

	postRepo.On("Exists", "p-1").Return(true, nil)
	likeRepo.On("Upsert", mock.AnythingOfType("*models.Like")).Return(nil)
	likeRepo.On("Counts", "p-1").Return(&repository.LikeCounts{Likes: 3, Dislikes: 1}, nil)

	w := postJSON(router, "/posts/p-1/like", gin.H{"value": 1})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp repository.LikeCounts
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.Likes)
	assert.Equal(t, int64(1), resp.Dislikes)

	likeRepo.AssertCalled(t, "Upsert", mock.MatchedBy(func(l *models.Like) bool {
		return l.UserID == "voter-1" && l.PostID == "p-1" && l.Value == 1
	}))
}

func TestLikePost_InvalidValue(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", "voter-1")
		handler.LikePost(c)
	})

	for _, value := range []int{0, 2, -2, 100} {
		w := postJSON(router, "/posts/p-1/like", gin.H{"value": value})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	likeRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestLikePost_PostNotFound(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/like", func(c *gin.Context) {
		c.Set("user_id", "voter-1")
		handler.LikePost(c)
	})

	postRepo.On("Exists", "missing").Return(false, nil)

	w := postJSON(router, "/posts/missing/like", gin.H{"value": -1})

	assert.Equal(t, http.StatusNotFound, w.Code)
	likeRepo.AssertNotCalled(t, "Upsert", mock.Anything)
}

func TestGetPost_NotFound(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.GET("/posts/:id", handler.GetPost)

	postRepo.On("GetByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/missing", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLikeCounts_Success(t *testing.T) {
	postRepo := new(MockPostRepository)
	likeRepo := new(MockLikeRepository)
	handler := NewPostHandler(postRepo, likeRepo, nil, logger.New())

	router := setupTestRouter()
	router.GET("/posts/:id/likes", handler.GetLikeCounts)

	postRepo.On("Exists", "p-1").Return(true, nil)
	likeRepo.On("Counts", "p-1").Return(&repository.LikeCounts{Likes: 5}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/p-1/likes", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"like_count":5`)
}
