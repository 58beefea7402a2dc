package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB *gorm.DB
}

func NewRestaurantController(db *gorm.DB) *RestaurantController {
	return &RestaurantController{DB: db}
}

// CreateRestaurant -> khusus SuperAdmin (dicek di router)
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	restaurant := models.Restaurant{Name: body.Name, IsActive: true}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("New restaurant created")
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetRestaurant -> publik, dipakai halaman menu customer
func (rc *RestaurantController) GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.Where("id = ?", c.Param("restaurant_id")).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant -> nama oleh admin restoran; is_active hanya oleh SuperAdmin
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Name == nil && req.IsActive == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.Where("id = ?", c.Param("restaurant_id")).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}

	target := services.Target{RestaurantID: restaurant.ID}
	updates := map[string]interface{}{}
	if req.Name != nil {
		if err := services.Authorize(actor, services.ActionManageCatalog, target); err != nil {
			respondServiceError(c, err)
			return
		}
		updates["name"] = *req.Name
	}
	if req.IsActive != nil {
		if err := services.Authorize(actor, services.ActionManageRestaurant, target); err != nil {
			respondServiceError(c, err)
			return
		}
		updates["is_active"] = *req.IsActive
	}

	if err := rc.DB.Model(&restaurant).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := rc.DB.Where("id = ?", restaurant.ID).First(&restaurant).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("restaurant_id", restaurant.ID).Info("Restaurant updated")
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}
