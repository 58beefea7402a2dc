package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

var errCustomerDisabled = errors.New("customer account is disabled")

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

// CreateSession -> dipanggil saat customer scan QR meja. Satu device di satu
// restoran selalu memakai user Customer yang sama; table_id di-bind ulang.
func (cc *CustomerController) CreateSession(c *gin.Context) {
	var req struct {
		TableID  string `json:"table_id" binding:"required"`
		DeviceID string `json:"device_id" binding:"required,max=100"`
		Name     string `json:"name" binding:"max=255"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	var table models.Table
	if err := cc.DB.Where("id = ? AND is_active = ?", req.TableID, true).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	var customer models.User
	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("role = ? AND device_id = ? AND restaurant_id = ?", models.RoleCustomer, req.DeviceID, table.RestaurantID).
			First(&customer).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			name := req.Name
			if name == "" {
				name = "Guest " + table.TableNumber
			}
			customer = models.User{
				Name:         name,
				Role:         models.RoleCustomer,
				RestaurantID: &table.RestaurantID,
				TableID:      &table.ID,
				DeviceID:     &req.DeviceID,
				IsActive:     true,
			}
			return tx.Create(&customer).Error
		}
		if err != nil {
			return err
		}
		if !customer.IsActive {
			return errCustomerDisabled
		}

		updates := map[string]interface{}{"table_id": table.ID}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if err := tx.Model(&customer).Updates(updates).Error; err != nil {
			return err
		}
		customer.TableID = &table.ID
		if req.Name != "" {
			customer.Name = req.Name
		}
		return nil
	})
	if errors.Is(err, errCustomerDisabled) {
		utils.RespondError(c, http.StatusForbidden, err)
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := tokenFor(customer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("customer_id", customer.ID).WithField("table_id", table.ID).Info("Customer session started")
	utils.RespondJSON(c, http.StatusCreated, "Customer session started", gin.H{
		"token":    token,
		"customer": customer,
		"table":    table,
	})
}
