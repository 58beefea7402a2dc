package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-order-api/kds"
	"github.com/yeremiapane/restaurant-order-api/middlewares"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
)

// KDSHandler -> endpoint WebSocket kitchen display
func KDSHandler(allowOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = true
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed["*"] || allowed[origin]
		},
	}

	return func(c *gin.Context) {
		actor, ok := middlewares.CurrentActor(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// restaurant_id kosong untuk SuperAdmin berarti semua restoran
		restaurantID := c.DefaultQuery("restaurant_id", actor.RestaurantID)
		if err := services.Authorize(actor, services.ActionWatchKitchen, services.Target{RestaurantID: restaurantID}); err != nil {
			respondServiceError(c, err)
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		kds.RegisterClient(ws, actor.Role, restaurantID)
		utils.InfoLogger.WithField("user_id", actor.UserID).WithField("restaurant_id", restaurantID).Info("KDS client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		kds.UnregisterClient(ws)
	}
}
