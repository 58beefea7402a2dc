package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	orderDayLayout    = "060102"
	restaurantSuffixN = 3
)

// Sequencer memberikan nomor urut berikutnya untuk (restaurant, hari).
// tx adalah transaksi yang sedang membuat order.
type Sequencer interface {
	Next(ctx context.Context, tx *gorm.DB, restaurantID, day string) (int, error)
}

// OrderDay -> YYMMDD pada kalender lokasi server
func OrderDay(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(orderDayLayout)
}

// RestaurantSuffix mengambil 3 karakter terakhir id restaurant (huruf besar).
// Id yang lebih pendek di-pad dengan "0" di kiri, contoh "7" -> "007".
func RestaurantSuffix(restaurantID string) string {
	id := strings.ToUpper(strings.TrimSpace(restaurantID))
	if len(id) >= restaurantSuffixN {
		return id[len(id)-restaurantSuffixN:]
	}
	return strings.Repeat("0", restaurantSuffixN-len(id)) + id
}

// FormatOrderNumber -> YYMMDD-RRR-SSS. Sequence di atas 999 tetap bertambah lebar.
func FormatOrderNumber(day string, restaurantID string, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", day, RestaurantSuffix(restaurantID), seq)
}
