package models

import "time"

// OrderCounter menyimpan sequence terakhir per restoran per hari (YYMMDD).
type OrderCounter struct {
	RestaurantID string    `gorm:"type:varchar(36);primaryKey"`
	Day          string    `gorm:"type:varchar(6);primaryKey"`
	LastSeq      int       `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}
