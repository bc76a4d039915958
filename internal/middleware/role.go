package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates a route group to one role. A valid token with the wrong
// role gets 403, not 401.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := c.Get(ContextUserRole)
		if current != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "role_mismatch",
				"message": "Access denied. " + role + "s only.",
			})
			return
		}
		c.Next()
	}
}
