package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
)

const (
	ctxActorKey = "actor"
	ctxTokenKey = "token"
)

// AuthMiddleware memvalidasi Bearer token lalu menyimpan services.Actor di context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid authorization format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if !setActorFromToken(c, tokenString) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func setActorFromToken(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return false
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return false
	}

	c.Set(ctxActorKey, services.Actor{
		UserID:       claims.UserID,
		Role:         role,
		RestaurantID: claims.RestaurantID,
		TableID:      claims.TableID,
	})
	c.Set(ctxTokenKey, tokenString)
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
	return true
}

// CurrentActor -> actor dari AuthMiddleware
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(ctxActorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

// CurrentToken -> raw token dari AuthMiddleware, dipakai saat logout
func CurrentToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}
