package services

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/restaurant-order-api/models"
)

// CalculateTotal menjumlahkan unitPrice x quantity secara eksak
func CalculateTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// buildOrderItems menyalin harga menu ke setiap baris order (price snapshot).
// Semua id harus ada di menus.
func buildOrderItems(lines []OrderItemInput, menus map[string]models.MenuItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		menu := menus[line.MenuItemID]
		items = append(items, models.OrderItem{
			Position:   i + 1,
			MenuItemID: menu.ID,
			Name:       menu.Name,
			Quantity:   line.Quantity,
			UnitPrice:  menu.Price,
			Notes:      line.Notes,
		})
	}
	return items
}
