package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/kds"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru ke restoran
func (tc *TableController) CreateTable(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	restaurantID := c.Param("restaurant_id")

	var req struct {
		TableNumber string `json:"table_number" binding:"required,max=50"`
		Name        string `json:"name" binding:"max=100"`
		Capacity    int    `json:"capacity" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := services.Authorize(actor, services.ActionManageCatalog, services.Target{RestaurantID: restaurantID}); err != nil {
		respondServiceError(c, err)
		return
	}
	if err := tc.DB.Select("id").Where("id = ?", restaurantID).First(&models.Restaurant{}).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
		return
	}

	table := models.Table{
		RestaurantID: restaurantID,
		TableNumber:  req.TableNumber,
		Name:         req.Name,
		Capacity:     req.Capacity,
		IsActive:     true,
	}
	if table.Capacity == 0 {
		table.Capacity = 1
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastTableCreate(table)
	utils.InfoLogger.WithField("table_id", table.ID).WithField("restaurant_id", restaurantID).Info("New table created")
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> seluruh meja satu restoran, untuk staff/admin
func (tc *TableController) GetAllTables(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	restaurantID := c.Param("restaurant_id")
	if err := services.Authorize(actor, services.ActionListRestaurant, services.Target{RestaurantID: restaurantID}); err != nil {
		respondServiceError(c, err)
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).Order("table_number ASC").Find(&tables).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTable -> publik, hasil scan QR meja
func (tc *TableController) GetTable(c *gin.Context) {
	var table models.Table
	if err := tc.DB.Where("id = ? AND is_active = ?", c.Param("table_id"), true).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> ubah nomor, nama, kapasitas atau status aktif meja
func (tc *TableController) UpdateTable(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		TableNumber *string `json:"table_number" binding:"omitempty,min=1,max=50"`
		Name        *string `json:"name" binding:"omitempty,max=100"`
		Capacity    *int    `json:"capacity" binding:"omitempty,min=1"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.TableNumber != nil {
		updates["table_number"] = *req.TableNumber
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	table, ok := tc.findManagedTable(c, actor)
	if !ok {
		return
	}
	if err := tc.DB.Model(&table).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := tc.DB.Where("id = ?", table.ID).First(&table).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	kds.BroadcastTableUpdate(table)
	utils.InfoLogger.WithField("table_id", table.ID).WithField("restaurant_id", table.RestaurantID).Info("Table updated")
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> meja dinonaktifkan, bukan dihapus, karena order lama masih menunjuk ke sana
func (tc *TableController) DeleteTable(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	table, ok := tc.findManagedTable(c, actor)
	if !ok {
		return
	}

	if err := tc.DB.Model(&table).Update("is_active", false).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	table.IsActive = false

	kds.BroadcastTableUpdate(table)
	utils.InfoLogger.WithField("table_id", table.ID).WithField("restaurant_id", table.RestaurantID).Info("Table deactivated")
	utils.RespondJSON(c, http.StatusOK, "Table deactivated", gin.H{
		"id":        table.ID,
		"is_active": table.IsActive,
	})
}

func (tc *TableController) findManagedTable(c *gin.Context, actor services.Actor) (models.Table, bool) {
	var table models.Table
	if err := tc.DB.Where("id = ?", c.Param("table_id")).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return table, false
	}
	if err := services.Authorize(actor, services.ActionManageCatalog, services.Target{RestaurantID: table.RestaurantID}); err != nil {
		respondServiceError(c, err)
		return table, false
	}
	return table, true
}
