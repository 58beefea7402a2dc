package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
)

type AdminController struct {
	Orders *services.OrderService
}

func NewAdminController(orders *services.OrderService) *AdminController {
	return &AdminController{Orders: orders}
}

// GetDashboardStats -> jumlah order per status dan pendapatan restoran
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	stats, err := ac.Orders.RestaurantStats(c.Request.Context(), actor, c.Param("restaurant_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}
