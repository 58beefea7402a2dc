package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-order-api/middlewares"
	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/services"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = errors.New("invalid credentials")

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func tokenFor(user models.User) (string, error) {
	var restaurantID, tableID string
	if user.RestaurantID != nil {
		restaurantID = *user.RestaurantID
	}
	if user.TableID != nil {
		tableID = *user.TableID
	}
	return utils.GenerateToken(user.ID, string(user.Role), restaurantID, tableID)
}

// Register -> akun staff/admin baru. Restaurant_Admin hanya bisa mendaftarkan
// akun untuk restorannya sendiri.
func (ac *AuthController) Register(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var req struct {
		Name         string `json:"name" binding:"required,max=255"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required,min=8"`
		Role         string `json:"role" binding:"required"`
		RestaurantID string `json:"restaurant_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	role := models.Role(req.Role)
	if !role.Valid() || role == models.RoleCustomer {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be SuperAdmin, Restaurant_Admin or Staff"))
		return
	}
	if role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		utils.RespondError(c, http.StatusForbidden, errors.New("only a SuperAdmin can create SuperAdmin accounts"))
		return
	}

	var restaurantID *string
	if role != models.RoleSuperAdmin {
		if req.RestaurantID == "" {
			req.RestaurantID = actor.RestaurantID
		}
		if err := services.Authorize(actor, services.ActionManageStaff, services.Target{RestaurantID: req.RestaurantID}); err != nil {
			respondServiceError(c, err)
			return
		}
		var restaurant models.Restaurant
		if err := ac.DB.Where("id = ?", req.RestaurantID).First(&restaurant).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("restaurant not found"))
			return
		}
		restaurantID = &restaurant.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := models.User{
		Name:         req.Name,
		Email:        &email,
		Password:     string(hashed),
		Role:         role,
		RestaurantID: restaurantID,
		IsActive:     true,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("user_id", user.ID).WithField("role", user.Role).Info("New user registered")
	utils.RespondJSON(c, http.StatusCreated, "User registered", user)
}

// Login -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := ac.DB.Where("email = ?", email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if !user.IsActive || user.Password == "" {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errInvalidCredentials)
		return
	}

	token, err := tokenFor(user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.WithField("user_id", user.ID).Info("Login successful")
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// Me -> profil user dari JWT
func (ac *AuthController) Me(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var user models.User
	if err := ac.DB.Where("id = ?", actor.UserID).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

// Logout -> token dimasukkan ke blacklist sampai kadaluarsa
func (ac *AuthController) Logout(c *gin.Context) {
	token := middlewares.CurrentToken(c)
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(token, expiresAt)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}
