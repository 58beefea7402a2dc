package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-order-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBSequencer menyimpan counter di tabel order_counters. Harus dipanggil di
// dalam transaksi pembuat order; UPDATE mengunci baris counter sampai commit.
type DBSequencer struct{}

func NewDBSequencer() *DBSequencer {
	return &DBSequencer{}
}

func (DBSequencer) Next(ctx context.Context, tx *gorm.DB, restaurantID, day string) (int, error) {
	db := tx.WithContext(ctx)

	counter := models.OrderCounter{RestaurantID: restaurantID, Day: day, LastSeq: 0, UpdatedAt: time.Now()}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
		return 0, fmt.Errorf("init order counter: %w", err)
	}

	res := db.Model(&models.OrderCounter{}).
		Where("restaurant_id = ? AND day = ?", restaurantID, day).
		UpdateColumns(map[string]interface{}{
			"last_seq":   gorm.Expr("last_seq + ?", 1),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("increment order counter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("increment order counter: counter row for %s/%s missing", restaurantID, day)
	}

	var current models.OrderCounter
	if err := db.Where("restaurant_id = ? AND day = ?", restaurantID, day).First(&current).Error; err != nil {
		return 0, fmt.Errorf("read order counter: %w", err)
	}
	return current.LastSeq, nil
}
