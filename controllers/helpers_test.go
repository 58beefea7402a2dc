package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-order-api/database"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/router"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	utils.ConfigureJWT("controllers-test-secret", time.Hour)
	os.Exit(m.Run())
}

type testEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	restaurant models.Restaurant
	table      models.Table
	burger     models.MenuItem
	fries      models.MenuItem
	staffToken string
	adminToken string
	rootToken  string
}

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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	env := &testEnv{db: db}

	env.restaurant = models.Restaurant{ID: "rest-a01", Name: "Warung A", IsActive: true}
	require.NoError(t, db.Create(&env.restaurant).Error)
	env.table = models.Table{RestaurantID: env.restaurant.ID, TableNumber: "T1", Capacity: 4, IsActive: true}
	require.NoError(t, db.Create(&env.table).Error)
	env.burger = seedMenu(t, db, env.restaurant.ID, "Burger", "10.00")
	env.fries = seedMenu(t, db, env.restaurant.ID, "Fries", "5.00")

	env.staffToken = seedUserToken(t, db, "staff@a.test", models.RoleStaff, &env.restaurant.ID)
	env.adminToken = seedUserToken(t, db, "admin@a.test", models.RoleRestaurantAdmin, &env.restaurant.ID)
	env.rootToken = seedUserToken(t, db, "root@platform.test", models.RoleSuperAdmin, nil)

	orders := services.NewOrderService(db)
	env.router = router.SetupRouter(router.Options{
		DB:               db,
		Orders:           orders,
		CORSAllowOrigins: []string{"*"},
	})
	return env
}

func seedMenu(t *testing.T, db *gorm.DB, restaurantID, name, price string) models.MenuItem {
	t.Helper()
	m := models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsActive:     true,
		IsAvailable:  true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

const testPassword = "secret-pass-123"

func seedUserToken(t *testing.T, db *gorm.DB, email string, role models.Role, restaurantID *string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		Name:         string(role) + " user",
		Email:        &email,
		Password:     string(hashed),
		Role:         role,
		RestaurantID: restaurantID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)

	rid := ""
	if restaurantID != nil {
		rid = *restaurantID
	}
	token, err := utils.GenerateToken(user.ID, string(role), rid, "")
	require.NoError(t, err)
	return token
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

// customerSession membuka sesi customer lewat endpoint QR
func (env *testEnv) customerSession(t *testing.T, deviceID string) (token string, customerID string) {
	t.Helper()
	w, resp := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id":  env.table.ID,
		"device_id": deviceID,
		"name":      "Guest " + deviceID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token    string      `json:"token"`
		Customer models.User `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.Token, data.Customer.ID
}

func (env *testEnv) placeOrder(t *testing.T, token string) models.Order {
	t.Helper()
	w, resp := doRequest(t, env.router, http.MethodPost, "/api/v1/orders", token, gin.H{
		"table_id": env.table.ID,
		"items": []gin.H{
			{"menu_item_id": env.burger.ID, "quantity": 2},
			{"menu_item_id": env.fries.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	return order
}
