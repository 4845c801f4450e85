package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const UserContextKey = "userID"

// AuthMiddleware requires a forwarded user identity. Authentication itself
// happens upstream; this service only consumes the resulting header.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(UserContextKey, userID)
		c.Next()
	}
}

// GetUserID returns the user id set by AuthMiddleware, or "".
func GetUserID(c *gin.Context) string {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
