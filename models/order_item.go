package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	Position   int    `gorm:"not null" json:"position"`
	MenuItemID string `gorm:"type:varchar(36);not null" json:"menu_item_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Quantity   int    `gorm:"not null" json:"quantity"`
	// UnitPrice adalah snapshot harga menu saat order dibuat
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Notes     string          `gorm:"type:varchar(200)" json:"notes,omitempty"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}

func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
