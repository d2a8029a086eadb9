package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"makerhub/pkg/jwt"
	"makerhub/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")
	token, _ := jwtService.GenerateToken("user-123", "user")

	router := setupTestRouter()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")

	router := setupTestRouter()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidFormat(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")

	router := setupTestRouter()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "InvalidFormat token")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")

	router := setupTestRouter()
	router.Use(AuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware_NoHeader(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")

	router := setupTestRouter()
	router.Use(OptionalAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		_, authed := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)

	router.ServeHTTP(w, req)

	// Anonymous requests pass through without identity
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "false")
}

func TestOptionalAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := jwt.NewService("test-secret-key")
	token, _ := jwtService.GenerateToken("user-456", "user")

	router := setupTestRouter()
	router.Use(OptionalAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-456")
}

func requireRoleRouter(policy Policy, role string) *gin.Engine {
	jwtService := jwt.NewService("test-secret-key")
	token, _ := jwtService.GenerateToken("user-123", role)

	router := setupTestRouter()
	router.Use(func(c *gin.Context) {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	})
	router.Use(AuthMiddleware(jwtService))
	router.Use(RequireRole(policy))
	router.DELETE("/projects/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	})
	router.GET("/projects/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestRequireRole_Denied(t *testing.T) {
	policy := Policy{"DELETE /projects/:id": models.RoleAdmin}
	router := requireRoleRouter(policy, "user")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/projects/p-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Allowed(t *testing.T) {
	policy := Policy{"DELETE /projects/:id": models.RoleAdmin}
	router := requireRoleRouter(policy, "admin")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/projects/p-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_SuperAdminOutranksAdmin(t *testing.T) {
	policy := Policy{"DELETE /projects/:id": models.RoleAdmin}
	router := requireRoleRouter(policy, "super_admin")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/projects/p-1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_RouteNotInPolicy(t *testing.T) {
	policy := Policy{"DELETE /projects/:id": models.RoleAdmin}
	router := requireRoleRouter(policy, "user")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/projects/p-1", nil)
	router.ServeHTTP(w, req)

	// Routes outside the policy table only need authentication
	assert.Equal(t, http.StatusOK, w.Code)
}
