package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-order-api/models"
	"gorm.io/gorm"
)

// Catalog -> lookup table dan menu yang dipakai saat membuat order
type Catalog interface {
	FindTable(ctx context.Context, tableID string) (*models.Table, error)
	FindMenuItems(ctx context.Context, ids []string, restaurantID string, activeOnly bool) ([]models.MenuItem, error)
}

// GormCatalog membaca katalog langsung dari database.
type GormCatalog struct {
	DB *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{DB: db}
}

// FindTable mengembalikan ErrNotFound bila table tidak ada
func (c *GormCatalog) FindTable(ctx context.Context, tableID string) (*models.Table, error) {
	var table models.Table
	err := c.DB.WithContext(ctx).Where("id = ?", tableID).First(&table).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("table %s not found", tableID)
	}
	if err != nil {
		return nil, fmt.Errorf("find table: %w", err)
	}
	return &table, nil
}

// FindMenuItems mengambil semua menu dalam satu query. Dengan activeOnly hanya
// menu yang aktif dan tersedia yang dikembalikan.
func (c *GormCatalog) FindMenuItems(ctx context.Context, ids []string, restaurantID string, activeOnly bool) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	q := c.DB.WithContext(ctx).Where("id IN ? AND restaurant_id = ?", ids, restaurantID)
	if activeOnly {
		q = q.Where("is_active = ? AND is_available = ?", true, true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}
	return items, nil
}
