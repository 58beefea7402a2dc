package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-order-api/kds"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

var errInvalidPrice = errors.New("price must be a non-negative decimal")

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// CreateMenu -> POST /restaurants/:restaurant_id/menu
func (mc *MenuController) CreateMenu(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	restaurantID := c.Param("restaurant_id")

	var req struct {
		Name        string           `json:"name" binding:"required,max=100"`
		Description string           `json:"description"`
		Price       *decimal.Decimal `json:"price" binding:"required"`
		CategoryID  *string          `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errInvalidPrice)
		return
	}
	if err := services.Authorize(actor, services.ActionManageCatalog, services.Target{RestaurantID: restaurantID}); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := mc.DB.Select("id").Where("id = ?", restaurantID).First(&models.Restaurant{}).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}
	if req.CategoryID != nil {
		err := mc.DB.Select("id").Where("id = ? AND restaurant_id = ?", *req.CategoryID, restaurantID).
			First(&models.MenuCategory{}).Error
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category not found in this restaurant"))
			return
		}
	}

	menu := models.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price.Round(2),
		IsActive:     true,
		IsAvailable:  true,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("menu_id", menu.ID).WithField("restaurant_id", restaurantID).Info("New menu item created")
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// GetAllMenus -> publik, hanya menu aktif
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.MenuItem
	err := mc.DB.Preload("Category").
		Where("restaurant_id = ? AND is_active = ?", c.Param("restaurant_id"), true).
		Order("name ASC").
		Find(&menus).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// UpdateMenu -> PATCH /menu/:menu_id. Staff hanya boleh mengubah is_available;
// harga dan is_active butuh hak kelola katalog.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		Price       *decimal.Decimal `json:"price"`
		IsAvailable *bool            `json:"is_available"`
		IsActive    *bool            `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Price == nil && req.IsAvailable == nil && req.IsActive == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		utils.RespondError(c, http.StatusBadRequest, errInvalidPrice)
		return
	}

	var menu models.MenuItem
	if err := mc.DB.Where("id = ?", c.Param("menu_id")).First(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	action := services.ActionUpdateAvailability
	if req.Price != nil || req.IsActive != nil {
		action = services.ActionManageCatalog
	}
	if err := services.Authorize(actor, action, services.Target{RestaurantID: menu.RestaurantID}); err != nil {
		respondServiceError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		updates["price"] = req.Price.Round(2)
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := mc.DB.Model(&menu).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := mc.DB.Where("id = ?", menu.ID).First(&menu).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	if req.IsAvailable != nil || req.IsActive != nil {
		kds.BroadcastMenuAvailability(menu)
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}
