package middleware

import (
	"net/http"
	"strings"

	"guidely/models"
	"guidely/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// AuthMiddleware validates the bearer token and sets the acting identity
// on the request context. Authentication itself happens upstream; the
// engine trusts the identity the token carries.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, role, err := utils.ExtractIdentityFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		if !models.Role(role).Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// Identity reads the acting identity set by AuthMiddleware.
func Identity(c *gin.Context) (string, models.Role) {
	userID := c.GetString(ContextUserID)
	role := models.Role(c.GetString(ContextRole))
	return userID, role
}
