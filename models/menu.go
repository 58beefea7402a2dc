package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	ID           string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	RestaurantID string          `gorm:"type:varchar(36);not null;index:idx_menu_restaurant_active" json:"restaurant_id"`
	CategoryID   *string         `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Category     *MenuCategory   `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
	Name         string          `gorm:"type:varchar(100);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsActive     bool            `gorm:"not null;index:idx_menu_restaurant_active" json:"is_active"`
	IsAvailable  bool            `gorm:"not null" json:"is_available"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updated_at"`
}

func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
