package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// AllOrderStatuses dalam urutan lifecycle
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, st := range AllOrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Order -> RestaurantID, TableID, CustomerID, OrderNumber dan TotalAmount
// hanya ditulis saat insert. Status hanya diubah lewat state machine.
type Order struct {
	ID                  string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderNumber         string          `gorm:"type:varchar(40);not null;uniqueIndex" json:"order_number"`
	RestaurantID        string          `gorm:"type:varchar(36);not null;index:idx_order_restaurant_status;index:idx_order_restaurant_created" json:"restaurant_id"`
	TableID             string          `gorm:"type:varchar(36);not null;index:idx_order_table_status" json:"table_id"`
	CustomerID          string          `gorm:"type:varchar(36);not null;index:idx_order_customer_created" json:"customer_id"`
	Status              OrderStatus     `gorm:"type:varchar(20);not null;index:idx_order_restaurant_status;index:idx_order_table_status" json:"status"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	SpecialInstructions string          `gorm:"type:varchar(500)" json:"special_instructions,omitempty"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt           time.Time       `gorm:"not null;index:idx_order_restaurant_created;index:idx_order_customer_created" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
