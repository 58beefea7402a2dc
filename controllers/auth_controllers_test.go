package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-order-api/models"
)

func TestLoginMeLogout(t *testing.T) {
	env := newTestEnv(t)

	w, _ := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "admin@a.test", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, resp := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "ADMIN@a.test", "password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleRestaurantAdmin, login.User.Role)
	assert.NotContains(t, w.Body.String(), "password")

	w, resp = doRequest(t, env.router, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Equal(t, login.User.ID, me.ID)

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/logout", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, env.router, http.MethodGet, "/api/v1/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	w, _ := doRequest(t, env.router, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doRequest(t, env.router, http.MethodGet, "/api/v1/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	other := models.Restaurant{ID: "rest-b02", Name: "Warung B", IsActive: true}
	require.NoError(t, env.db.Create(&other).Error)

	newStaff := gin.H{
		"name": "Kitchen One", "email": "kitchen@a.test", "password": "long-enough-pw", "role": "Staff",
	}

	w, _ := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.staffToken, newStaff)
	assert.Equal(t, http.StatusForbidden, w.Code, "staff cannot register users")

	w, resp := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.adminToken, newStaff)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user models.User
	require.NoError(t, json.Unmarshal(resp.Data, &user))
	require.NotNil(t, user.RestaurantID)
	assert.Equal(t, env.restaurant.ID, *user.RestaurantID)
	assert.Equal(t, models.RoleStaff, user.Role)

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.adminToken, newStaff)
	assert.Equal(t, http.StatusConflict, w.Code, "duplicate email")

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.adminToken, gin.H{
		"name": "Spy", "email": "spy@b.test", "password": "long-enough-pw", "role": "Staff", "restaurant_id": other.ID,
	})
	assert.Equal(t, http.StatusForbidden, w.Code, "admin of another restaurant")

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.adminToken, gin.H{
		"name": "Boss", "email": "boss@a.test", "password": "long-enough-pw", "role": "SuperAdmin",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.adminToken, gin.H{
		"name": "Guest", "email": "guest@a.test", "password": "long-enough-pw", "role": "Customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.rootToken, gin.H{
		"name": "B admin", "email": "admin@b.test", "password": "long-enough-pw", "role": "Restaurant_Admin", "restaurant_id": other.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/register", env.rootToken, gin.H{
		"name": "Short", "email": "short@a.test", "password": "123", "role": "Staff", "restaurant_id": env.restaurant.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomerSession(t *testing.T) {
	env := newTestEnv(t)

	_, first := env.customerSession(t, "device-1")
	_, again := env.customerSession(t, "device-1")
	_, other := env.customerSession(t, "device-2")
	assert.Equal(t, first, again, "same device keeps the same customer")
	assert.NotEqual(t, first, other)

	w, _ := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id": "missing", "device_id": "device-3",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id": env.table.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, env.db.Model(&env.table).Update("is_active", false).Error)
	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id": env.table.ID, "device_id": "device-1",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerSession_KeepsNameAndRejectsDisabled(t *testing.T) {
	env := newTestEnv(t)
	_, customerID := env.customerSession(t, "device-1")

	second := models.Table{RestaurantID: env.restaurant.ID, TableNumber: "T2", Capacity: 2, IsActive: true}
	require.NoError(t, env.db.Create(&second).Error)

	w, _ := doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id": second.ID, "device_id": "device-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, env.db.Where("id = ?", customerID).First(&stored).Error)
	assert.Equal(t, "Guest device-1", stored.Name, "empty name keeps the chosen one")
	require.NotNil(t, stored.TableID)
	assert.Equal(t, second.ID, *stored.TableID)

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", customerID).Update("is_active", false).Error)
	w, _ = doRequest(t, env.router, http.MethodPost, "/api/v1/auth/customer", "", gin.H{
		"table_id": env.table.ID, "device_id": "device-1", "name": "Someone else",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	stored = models.User{}
	require.NoError(t, env.db.Where("id = ?", customerID).First(&stored).Error)
	assert.Equal(t, second.ID, *stored.TableID, "disabled customer is not rebound")
	assert.Equal(t, "Guest device-1", stored.Name)
}
