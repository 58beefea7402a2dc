package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/statemachine"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"gorm.io/gorm"
)

const (
	DefaultOrderNumberAttempts = 5
	DefaultPageLimit           = 10
	MaxPageLimit               = 100

	maxItemNotesLen           = 200
	maxSpecialInstructionsLen = 500
	orderNumberSavePoint      = "order_number"
)

type OrderItemInput struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	Notes      string `json:"notes" binding:"max=200"`
}

type CreateOrderInput struct {
	TableID             string           `json:"table_id" binding:"required"`
	Items               []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	SpecialInstructions string           `json:"special_instructions" binding:"max=500"`
}

type OrderFilter struct {
	Status models.OrderStatus
	From   *time.Time
	To     *time.Time
}

type Page struct {
	Page  int
	Limit int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

type OrderPage struct {
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type OrderStats struct {
	RestaurantID string                       `json:"restaurant_id"`
	TotalOrders  int64                        `json:"total_orders"`
	ByStatus     map[models.OrderStatus]int64 `json:"by_status"`
	Revenue      decimal.Decimal              `json:"revenue"`
}

// OrderService menangani pembuatan, perubahan status, dan query order
type OrderService struct {
	DB          *gorm.DB
	Catalog     Catalog
	Sequencer   Sequencer
	Logger      *logrus.Entry
	Now         func() time.Time
	Location    *time.Location
	MaxAttempts int
}

// NewOrderService membuat OrderService dengan katalog gorm dan counter di database
func NewOrderService(db *gorm.DB) *OrderService {
	logger := utils.InfoLogger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &OrderService{
		DB:          db,
		Catalog:     NewGormCatalog(db),
		Sequencer:   NewDBSequencer(),
		Logger:      logger.WithField("component", "order_service"),
		Now:         time.Now,
		Location:    time.Local,
		MaxAttempts: DefaultOrderNumberAttempts,
	}
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *OrderService) maxAttempts() int {
	if s.MaxAttempts < 1 {
		return DefaultOrderNumberAttempts
	}
	return s.MaxAttempts
}

func validateCreateInput(input CreateOrderInput) error {
	if strings.TrimSpace(input.TableID) == "" {
		return invalidInput("table_id is required")
	}
	if len(input.Items) == 0 {
		return invalidInput("order must contain at least one item")
	}
	for i, item := range input.Items {
		if strings.TrimSpace(item.MenuItemID) == "" {
			return invalidInput("items[%d]: menu_item_id is required", i)
		}
		if item.Quantity < 1 {
			return invalidInput("items[%d]: quantity must be at least 1", i)
		}
		if utf8.RuneCountInString(item.Notes) > maxItemNotesLen {
			return invalidInput("items[%d]: notes must be at most %d characters", i, maxItemNotesLen)
		}
	}
	if utf8.RuneCountInString(input.SpecialInstructions) > maxSpecialInstructionsLen {
		return invalidInput("special_instructions must be at most %d characters", maxSpecialInstructionsLen)
	}
	return nil
}

// CreateOrder memvalidasi request terhadap katalog, menghitung total, lalu
// menyimpan order beserta nomor order dalam satu transaksi.
func (s *OrderService) CreateOrder(ctx context.Context, actor Actor, input CreateOrderInput) (*models.Order, error) {
	if _, ok := capabilities[actor.Role][ActionCreateOrder]; !ok {
		return nil, forbidden("role %s is not allowed to create orders", actor.Role)
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	table, err := s.Catalog.FindTable(ctx, input.TableID)
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, notFound("table %s not found", input.TableID)
	}
	if err := Authorize(actor, ActionCreateOrder, Target{RestaurantID: table.RestaurantID, TableID: table.ID}); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(input.Items))
	seen := make(map[string]bool, len(input.Items))
	for _, item := range input.Items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			ids = append(ids, item.MenuItemID)
		}
	}

	menus, err := s.Catalog.FindMenuItems(ctx, ids, table.RestaurantID, true)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.MenuItem, len(menus))
	for _, m := range menus {
		if m.IsActive && m.IsAvailable && m.RestaurantID == table.RestaurantID {
			byID[m.ID] = m
		}
	}
	if len(byID) != len(ids) {
		var missing []string
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		return nil, invalidInput("menu items not found or unavailable: %s", strings.Join(missing, ", "))
	}

	items := buildOrderItems(input.Items, byID)
	// hari order mengikuti zona restoran, timestamp disimpan dalam UTC
	local := s.now()
	day := OrderDay(local, s.Location)
	now := local.UTC()
	order := &models.Order{
		RestaurantID:        table.RestaurantID,
		TableID:             table.ID,
		CustomerID:          actor.UserID,
		Status:              models.OrderStatusPending,
		TotalAmount:         CalculateTotal(items),
		SpecialInstructions: input.SpecialInstructions,
		Items:               items,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.insertWithOrderNumber(ctx, tx, order, day)
	})
	if err != nil {
		var oerr *OrderError
		if !errors.As(err, &oerr) {
			s.Logger.WithFields(logrus.Fields{
				"restaurant_id": order.RestaurantID,
				"table_id":      order.TableID,
				"customer_id":   order.CustomerID,
			}).WithError(err).Error("Failed to create order")
			return nil, fmt.Errorf("create order: %w", err)
		}
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"order_number":  order.OrderNumber,
		"restaurant_id": order.RestaurantID,
		"customer_id":   order.CustomerID,
		"total":         order.TotalAmount.StringFixed(2),
	}).Info("Order created")
	return order, nil
}

// insertWithOrderNumber mengambil nomor urut lalu insert order. Bila nomor
// bentrok dengan unique index, insert diulang dengan nomor berikutnya.
func (s *OrderService) insertWithOrderNumber(ctx context.Context, tx *gorm.DB, order *models.Order, day string) error {
	attempts := s.maxAttempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		seq, err := s.Sequencer.Next(ctx, tx, order.RestaurantID, day)
		if err != nil {
			return err
		}
		order.OrderNumber = FormatOrderNumber(day, order.RestaurantID, seq)

		if err := tx.SavePoint(orderNumberSavePoint).Error; err != nil {
			return fmt.Errorf("savepoint: %w", err)
		}
		// tanpa TranslateError supaya nama kolom yang bentrok tetap terbaca
		raw := tx.Session(&gorm.Session{})
		raw.Config.TranslateError = false
		err = raw.Create(order).Error
		if err == nil {
			return nil
		}
		if !isOrderNumberCollision(err) {
			return err
		}
		if rbErr := tx.RollbackTo(orderNumberSavePoint).Error; rbErr != nil {
			return fmt.Errorf("rollback to savepoint: %w", rbErr)
		}
		s.Logger.WithFields(logrus.Fields{
			"order_number": order.OrderNumber,
			"attempt":      attempt,
		}).Warn("Order number collision, retrying")
	}
	return newOrderError(ErrConflict, "could not allocate a unique order number after %d attempts", attempts)
}

// isOrderNumberCollision -> true hanya bila unique violation ada di order_number
// (sqlite: "UNIQUE constraint failed: orders.order_number",
// mysql: "Duplicate entry ... for key 'orders.idx_orders_order_number'")
func isOrderNumberCollision(err error) bool {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "Duplicate entry") {
		return false
	}
	return strings.Contains(msg, "order_number")
}

func (s *OrderService) loadOrder(ctx context.Context, db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	err := db.WithContext(ctx).
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Where("id = ?", orderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

func orderTarget(o *models.Order) Target {
	return Target{RestaurantID: o.RestaurantID, TableID: o.TableID, CustomerID: o.CustomerID}
}

// GetOrder mengembalikan order bila actor berhak membacanya
func (s *OrderService) GetOrder(ctx context.Context, actor Actor, orderID string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionReadOrder, orderTarget(order)); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderHistory -> riwayat perubahan status, terlama dulu
func (s *OrderService) GetOrderHistory(ctx context.Context, actor Actor, orderID string) ([]models.OrderStatusHistory, error) {
	if _, err := s.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	var history []models.OrderStatusHistory
	err := s.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("load order history: %w", err)
	}
	return history, nil
}

// UpdateStatus memindahkan order ke status berikutnya sesuai state machine.
// Update bersyarat pada status lama mencegah dua request sukses dari status yang sama.
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, orderID string, requested models.OrderStatus) (*models.Order, error) {
	if !requested.Valid() {
		return nil, invalidInput("unknown order status %q", requested)
	}
	order, err := s.loadOrder(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionTransitionOrder, orderTarget(order)); err != nil {
		return nil, err
	}
	if statemachine.IsTerminal(order.Status) {
		return nil, newOrderError(ErrInvalidTransition,
			"order %s is already %s and can no longer change status (requested %s)", order.OrderNumber, order.Status, requested)
	}
	if err := statemachine.CanTransition(order.Status, requested); err != nil {
		return nil, newOrderError(ErrInvalidTransition, "%s", err.Error())
	}

	if err := s.applyTransition(ctx, actor, order, requested, func(current models.OrderStatus) error {
		return newOrderError(ErrInvalidTransition,
			"order status changed to %s concurrently; %s -> %s is no longer possible", current, order.Status, requested)
	}); err != nil {
		return nil, err
	}
	return s.loadOrder(ctx, s.DB, orderID)
}

// CancelOrder membatalkan order milik customer. Hanya order Pending yang bisa dibatalkan lewat jalur ini.
func (s *OrderService) CancelOrder(ctx context.Context, actor Actor, orderID string) (*models.Order, error) {
	order, err := s.loadOrder(ctx, s.DB, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionCancelOrder, orderTarget(order)); err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, errPendingOnlyCancel()
	}

	if err := s.applyTransition(ctx, actor, order, models.OrderStatusCancelled, func(models.OrderStatus) error {
		return errPendingOnlyCancel()
	}); err != nil {
		return nil, err
	}
	return s.loadOrder(ctx, s.DB, orderID)
}

func errPendingOnlyCancel() error {
	return newOrderError(ErrInvalidOperation, "only pending orders can be cancelled this way")
}

// applyTransition menulis status baru dan riwayatnya dalam satu transaksi.
// stale dipanggil bila status di database sudah bukan order.Status.
func (s *OrderService) applyTransition(ctx context.Context, actor Actor, order *models.Order, to models.OrderStatus, stale func(current models.OrderStatus) error) error {
	now := s.now().UTC()
	from := order.Status

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			UpdateColumns(map[string]interface{}{
				"status":     to,
				"updated_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var current models.Order
			if err := tx.Select("status").Where("id = ?", order.ID).First(&current).Error; err != nil {
				return fmt.Errorf("reload order status: %w", err)
			}
			return stale(current.Status)
		}
		return tx.Create(&models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: from,
			ToStatus:   to,
			ChangedBy:  actor.UserID,
			CreatedAt:  now,
		}).Error
	})
	if err != nil {
		var oerr *OrderError
		if !errors.As(err, &oerr) {
			s.Logger.WithFields(logrus.Fields{
				"order_id": order.ID,
				"from":     from,
				"to":       to,
				"actor":    actor.UserID,
			}).WithError(err).Error("Failed to update order status")
		}
		return err
	}

	s.Logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"from":         from,
		"to":           to,
		"actor":        actor.UserID,
	}).Info("Order status updated")
	return nil
}

// ParseOrderFilter membaca filter dari query string. Tanggal boleh RFC3339
// atau YYYY-MM-DD; "to" berupa tanggal saja mencakup seluruh hari itu.
func ParseOrderFilter(status, from, to string, loc *time.Location) (OrderFilter, error) {
	var filter OrderFilter
	if loc == nil {
		loc = time.Local
	}
	if status != "" {
		filter.Status = models.OrderStatus(status)
		if !filter.Status.Valid() {
			return filter, invalidInput("unknown order status %q", status)
		}
	}
	if from != "" {
		t, _, err := parseFilterTime(from, loc)
		if err != nil {
			return filter, invalidInput("invalid from date %q", from)
		}
		filter.From = &t
	}
	if to != "" {
		t, dateOnly, err := parseFilterTime(to, loc)
		if err != nil {
			return filter, invalidInput("invalid to date %q", to)
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		filter.To = &t
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, invalidInput("from must not be after to")
	}
	return filter, nil
}

func parseFilterTime(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	return t, true, err
}

// ParsePage membaca page dan limit. Kosong berarti default; limit dibatasi MaxPageLimit.
func ParsePage(page, limit string) (Page, error) {
	p := Page{Page: 1, Limit: DefaultPageLimit}
	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return p, invalidInput("page must be a positive integer")
		}
		p.Page = n
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return p, invalidInput("limit must be a positive integer")
		}
		p.Limit = n
	}
	return p.normalize()
}

func (p Page) normalize() (Page, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Page < 0 || p.Limit < 0 {
		return p, invalidInput("page and limit must be positive")
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p, nil
}

func (f OrderFilter) validate() error {
	if f.Status != "" && !f.Status.Valid() {
		return invalidInput("unknown order status %q", f.Status)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return invalidInput("from must not be after to")
	}
	return nil
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	// created_at disimpan dalam UTC; sqlite membandingkan timestamp sebagai teks
	if f.From != nil {
		q = q.Where("created_at >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", f.To.UTC())
	}
	return q
}

// ListRestaurantOrders -> order satu restaurant, terbaru dulu
func (s *OrderService) ListRestaurantOrders(ctx context.Context, actor Actor, restaurantID string, filter OrderFilter, page Page) (*OrderPage, error) {
	var restaurant models.Restaurant
	err := s.DB.WithContext(ctx).Select("id").Where("id = ?", restaurantID).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("restaurant %s not found", restaurantID)
	}
	if err != nil {
		return nil, fmt.Errorf("load restaurant: %w", err)
	}
	if err := Authorize(actor, ActionListRestaurant, Target{RestaurantID: restaurantID}); err != nil {
		return nil, err
	}
	return s.listOrders(ctx, "restaurant_id = ?", restaurantID, filter, page)
}

// ListTableOrders -> order satu table, terbaru dulu
func (s *OrderService) ListTableOrders(ctx context.Context, actor Actor, tableID string, filter OrderFilter, page Page) (*OrderPage, error) {
	table, err := s.Catalog.FindTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionListTable, Target{RestaurantID: table.RestaurantID, TableID: table.ID}); err != nil {
		return nil, err
	}
	return s.listOrders(ctx, "table_id = ?", table.ID, filter, page)
}

func (s *OrderService) listOrders(ctx context.Context, scopeQuery string, scopeValue string, filter OrderFilter, page Page) (*OrderPage, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}
	if err := filter.validate(); err != nil {
		return nil, err
	}

	scoped := func() *gorm.DB {
		return filter.apply(s.DB.WithContext(ctx).Model(&models.Order{}).Where(scopeQuery, scopeValue))
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	orders := make([]models.Order, 0, page.Limit)
	err = scoped().
		Preload("Items", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Order("created_at DESC").
		Order("id DESC").
		Offset((page.Page - 1) * page.Limit).
		Limit(page.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return &OrderPage{
		Orders: orders,
		Pagination: Pagination{
			Total: total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: int(math.Ceil(float64(total) / float64(page.Limit))),
		},
	}, nil
}

// RestaurantStats -> jumlah order per status dan pendapatan dari order Delivered
func (s *OrderService) RestaurantStats(ctx context.Context, actor Actor, restaurantID string) (*OrderStats, error) {
	if err := Authorize(actor, ActionListRestaurant, Target{RestaurantID: restaurantID}); err != nil {
		return nil, err
	}

	type statusCount struct {
		Status models.OrderStatus
		Count  int64
	}
	var counts []statusCount
	err := s.DB.WithContext(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count orders by status: %w", err)
	}

	stats := &OrderStats{
		RestaurantID: restaurantID,
		ByStatus:     make(map[models.OrderStatus]int64, len(models.AllOrderStatuses)),
		Revenue:      decimal.Zero,
	}
	for _, st := range models.AllOrderStatuses {
		stats.ByStatus[st] = 0
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.TotalOrders += c.Count
	}

	var revenue decimal.NullDecimal
	err = s.DB.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_amount)").
		Where("restaurant_id = ? AND status = ?", restaurantID, models.OrderStatusDelivered).
		Row().Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if revenue.Valid {
		stats.Revenue = revenue.Decimal.Round(2)
	}
	return stats, nil
}
