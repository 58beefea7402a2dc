package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Table struct {
	ID           string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	RestaurantID string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_table_restaurant_number" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"foreignKey:RestaurantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableNumber  string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_table_restaurant_number" json:"table_number"`
	Name         string      `gorm:"type:varchar(100)" json:"name"`
	Capacity     int         `gorm:"not null;default:1" json:"capacity"`
	IsActive     bool        `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
