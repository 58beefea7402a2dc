package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-order-api/database"
	"github.com/yeremiapane/restaurant-order-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// testClock maju step setiap kali dipanggil
type testClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTestClock(start time.Time, step time.Duration) *testClock {
	return &testClock{now: start, step: step}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}

type fixture struct {
	db         *gorm.DB
	svc        *OrderService
	clock      *testClock
	restaurant models.Restaurant
	table      models.Table
	burger     models.MenuItem
	fries      models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)

	f := &fixture{db: db}
	f.restaurant = createRestaurant(t, db, "rest-a01")
	f.table = createTable(t, db, f.restaurant.ID, 1)
	f.burger = createMenuItem(t, db, f.restaurant.ID, "Burger", "10.00")
	f.fries = createMenuItem(t, db, f.restaurant.ID, "Fries", "5.00")

	f.clock = newTestClock(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC), time.Second)
	f.svc = NewOrderService(db)
	f.svc.Now = f.clock.Now
	f.svc.Location = time.UTC
	silent := logrus.New()
	silent.SetLevel(logrus.PanicLevel)
	f.svc.Logger = logrus.NewEntry(silent)
	return f
}

func createRestaurant(t *testing.T, db *gorm.DB, id string) models.Restaurant {
	t.Helper()
	r := models.Restaurant{ID: id, Name: "Restaurant " + id, IsActive: true}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func createTable(t *testing.T, db *gorm.DB, restaurantID string, number int) models.Table {
	t.Helper()
	tbl := models.Table{
		RestaurantID: restaurantID,
		TableNumber:  fmt.Sprint(number),
		Name:         fmt.Sprintf("Table %d", number),
		Capacity:     4,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&tbl).Error)
	return tbl
}

func createMenuItem(t *testing.T, db *gorm.DB, restaurantID, name, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsActive:     true,
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func customerActor(id, tableID string) Actor {
	return Actor{UserID: id, Role: models.RoleCustomer, TableID: tableID}
}

func staffActor(restaurantID string) Actor {
	return Actor{UserID: "staff-" + restaurantID, Role: models.RoleStaff, RestaurantID: restaurantID}
}

func superAdmin() Actor {
	return Actor{UserID: "root", Role: models.RoleSuperAdmin}
}

func (f *fixture) placeOrder(t *testing.T, actor Actor) *models.Order {
	t.Helper()
	order, err := f.svc.CreateOrder(ctxBG(), actor, CreateOrderInput{
		TableID: f.table.ID,
		Items: []OrderItemInput{
			{MenuItemID: f.burger.ID, Quantity: 2},
			{MenuItemID: f.fries.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

// forceStatus menyiapkan status awal tanpa melewati state machine
func (f *fixture) forceStatus(t *testing.T, orderID string, status models.OrderStatus) {
	t.Helper()
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", orderID).UpdateColumn("status", status).Error)
}

func ctxBG() context.Context {
	return context.Background()
}
