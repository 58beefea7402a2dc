package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware -> browser tidak bisa mengirim header saat upgrade,
// jadi token boleh lewat query ?token=
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" || !setActorFromToken(c, token) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
