package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/restaurant-order-api/models"
	"github.com/yeremiapane/restaurant-order-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AllModels -> urutan migrasi, tabel induk lebih dulu
func AllModels() []interface{} {
	return []interface{}{
		&models.Restaurant{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
		&models.OrderStatusHistory{},
	}
}

// Migrate menjalankan AutoMigrate untuk semua model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.Println("AutoMigrate completed.")
	}
	return nil
}

// SeedSuperAdmin membuat akun SuperAdmin pertama bila email belum terdaftar.
// Email kosong berarti seeding dilewati.
func SeedSuperAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	if password == "" {
		return errors.New("superadmin password is required when email is set")
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup superadmin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}
	admin := models.User{
		Name:     "Super Admin",
		Email:    &email,
		Password: string(hashed),
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.WithField("email", email).Info("SuperAdmin account seeded")
	}
	return nil
}
