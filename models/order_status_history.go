package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatusHistory struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID    string      `gorm:"type:varchar(36);not null;index" json:"order_id"`
	FromStatus OrderStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   OrderStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  string      `gorm:"type:varchar(36);not null" json:"changed_by"`
	CreatedAt  time.Time   `gorm:"not null" json:"created_at"`
}

func (h *OrderStatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}
