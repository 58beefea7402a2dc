package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mencakup staff, admin restoran, superadmin, dan customer.
// Customer tidak punya email/password; identitasnya device_id + table_id.
type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password     string    `gorm:"type:varchar(255)" json:"-"`
	Role         Role      `gorm:"type:varchar(30);not null;index:idx_user_role_restaurant" json:"role"`
	RestaurantID *string   `gorm:"type:varchar(36);index:idx_user_role_restaurant;index:idx_user_device_restaurant" json:"restaurant_id,omitempty"`
	TableID      *string   `gorm:"type:varchar(36)" json:"table_id,omitempty"`
	DeviceID     *string   `gorm:"type:varchar(100);index:idx_user_device_restaurant" json:"-"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
