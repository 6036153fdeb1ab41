package migrations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"storefront/internal/models"
	"storefront/internal/repository"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Models lists every table owned by the storefront, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.Category{},
		&models.Product{},
		&models.District{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Slider{},
		&models.PromotionalFeature{},
		&models.AdminUser{},
	}
}

// RunMigrations brings the schema up to date. Existing data is kept.
func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("Database migrations completed successfully!")
	return nil
}

// DefaultDistricts are the shipping zones created by Seed.
var DefaultDistricts = []struct {
	Name   string
	Charge string
}{
	{"Dhaka", "60"},
	{"Gazipur", "100"},
	{"Narayanganj", "100"},
	{"Chattogram", "120"},
	{"Sylhet", "120"},
	{"Rajshahi", "120"},
	{"Khulna", "120"},
	{"Barishal", "120"},
	{"Rangpur", "120"},
	{"Mymensingh", "120"},
}

// Seed creates the admin account and default districts. Running it again
// leaves existing rows untouched.
func Seed(ctx context.Context, store repository.Store, auth services.AuthService, adminEmail, adminPassword string) error {
	log.Println("Creating default data...")

	if _, err := auth.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	created := 0
	for _, d := range DefaultDistricts {
		_, err := store.Districts().GetByName(ctx, d.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to look up district %s: %w", d.Name, err)
		}
		district := &models.District{
			Name:           d.Name,
			DeliveryCharge: decimal.RequireFromString(d.Charge),
			IsActive:       true,
		}
		if err := store.Districts().Create(ctx, district); err != nil {
			return fmt.Errorf("failed to create district %s: %w", d.Name, err)
		}
		created++
	}

	log.Printf("Default data created successfully! (%d new districts)", created)
	return nil
}
