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

var staffRoles = []models.Role{models.RoleRestaurantAdmin, models.RoleStaff}

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// ListStaff -> staff dan admin satu restoran
func (sc *StaffController) ListStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	restaurantID := c.Param("restaurant_id")
	if err := services.Authorize(actor, services.ActionManageStaff, services.Target{RestaurantID: restaurantID}); err != nil {
		respondServiceError(c, err)
		return
	}

	var users []models.User
	err := sc.DB.Where("restaurant_id = ? AND role IN ?", restaurantID, staffRoles).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of staff", users)
}

// UpdateStaff -> ubah nama, role (Staff/Restaurant_Admin) atau status aktif
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if role != models.RoleStaff && role != models.RoleRestaurantAdmin {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be Staff or Restaurant_Admin"))
			return
		}
		updates["role"] = role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nothing to update"))
		return
	}

	user, ok := sc.findStaff(c, actor)
	if !ok {
		return
	}
	if user.ID == actor.UserID && (req.Role != nil || req.IsActive != nil) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("you cannot change your own role or status"))
		return
	}

	if err := sc.DB.Model(&user).Updates(updates).Error; err != nil {
		respondServiceError(c, err)
		return
	}
	if err := sc.DB.Where("id = ?", user.ID).First(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("user_id", user.ID).WithField("actor", actor.UserID).Info("Staff updated")
	utils.RespondJSON(c, http.StatusOK, "Staff updated", user)
}

// DeleteStaff -> akun dinonaktifkan sehingga tidak bisa login lagi
func (sc *StaffController) DeleteStaff(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	user, ok := sc.findStaff(c, actor)
	if !ok {
		return
	}
	if user.ID == actor.UserID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("you cannot deactivate your own account"))
		return
	}

	if err := sc.DB.Model(&user).Update("is_active", false).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("user_id", user.ID).WithField("actor", actor.UserID).Info("Staff deactivated")
	utils.RespondJSON(c, http.StatusOK, "Staff deactivated", gin.H{
		"id":        user.ID,
		"is_active": false,
	})
}

// findStaff -> user harus staff/admin dari restoran di path
func (sc *StaffController) findStaff(c *gin.Context, actor services.Actor) (models.User, bool) {
	var user models.User
	restaurantID := c.Param("restaurant_id")
	if err := services.Authorize(actor, services.ActionManageStaff, services.Target{RestaurantID: restaurantID}); err != nil {
		respondServiceError(c, err)
		return user, false
	}
	err := sc.DB.Where("id = ? AND restaurant_id = ? AND role IN ?", c.Param("user_id"), restaurantID, staffRoles).
		First(&user).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("staff not found"))
		return user, false
	}
	return user, true
}
