package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/kds"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
)

type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(svc *services.OrderService) *OrderController {
	return &OrderController{Service: svc}
}

// CreateOrder -> order baru berstatus Pending
func (oc *OrderController) CreateOrder(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var body services.CreateOrderInput
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	order, err := oc.Service.CreateOrder(c.Request.Context(), actor, body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderCreated(*order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	order, err := oc.Service.GetOrder(c.Request.Context(), actor, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderHistory -> riwayat perubahan status
func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	history, err := oc.Service.GetOrderHistory(c.Request.Context(), actor, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order history", history)
}

func (oc *OrderController) parseListQuery(c *gin.Context) (services.OrderFilter, services.Page, error) {
	filter, err := services.ParseOrderFilter(c.Query("status"), c.Query("from"), c.Query("to"), oc.Service.Location)
	if err != nil {
		return filter, services.Page{}, err
	}
	page, err := services.ParsePage(c.Query("page"), c.Query("limit"))
	return filter, page, err
}

// ListRestaurantOrders -> GET /orders/restaurant/:restaurant_id?status=&from=&to=&page=&limit=
func (oc *OrderController) ListRestaurantOrders(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	filter, page, err := oc.parseListQuery(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := oc.Service.ListRestaurantOrders(c.Request.Context(), actor, c.Param("restaurant_id"), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", result)
}

// ListTableOrders -> GET /orders/table/:table_id
func (oc *OrderController) ListTableOrders(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	filter, page, err := oc.parseListQuery(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := oc.Service.ListTableOrders(c.Request.Context(), actor, c.Param("table_id"), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", result)
}

// UpdateOrderStatus -> PUT /orders/:order_id/status {"status": "Confirmed"}
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	order, err := oc.Service.UpdateStatus(c.Request.Context(), actor, c.Param("order_id"), models.OrderStatus(body.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderStatus(*order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelOrder -> DELETE /orders/:order_id, hanya untuk order Pending
func (oc *OrderController) CancelOrder(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	order, err := oc.Service.CancelOrder(c.Request.Context(), actor, c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastOrderCancelled(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{
		"id":           order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})
}
