package middleware

import (
	"net/http"
	"strings"

	"makerhub/pkg/jwt"
	"makerhub/pkg/models"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and injects user_id and
// user_role into the gin context. Handlers behind it never see an
// unauthenticated request.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromHeader(c, jwtService)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware populates the identity when a valid token is
// present and lets the request through either way. Used by routes that
// serve both anonymous and authenticated callers, like purchase-status.
func OptionalAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromHeader(c, jwtService); ok {
			c.Set("user_id", claims.UserID)
			c.Set("user_role", claims.Role)
		}
		c.Next()
	}
}

func claimsFromHeader(c *gin.Context, jwtService *jwt.Service) (*jwt.Claims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Policy maps "METHOD route-template" to the minimum role required, e.g.
// {"DELETE /api/v1/projects/:id": models.RoleAdmin}. Routes absent from
// the table need no role beyond authentication.
type Policy map[string]models.UserRole

var roleRank = map[models.UserRole]int{
	models.RoleUser:       0,
	models.RoleAdmin:      1,
	models.RoleSuperAdmin: 2,
}

// RequireRole is the single guard evaluating the policy table. It runs
// after AuthMiddleware and answers 403 when the session's role is below
// the route's requirement.
func RequireRole(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		required, ok := policy[c.Request.Method+" "+c.FullPath()]
		if !ok {
			c.Next()
			return
		}

		role := models.UserRole(c.GetString("user_role"))
		if roleRank[role] < roleRank[required] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}
