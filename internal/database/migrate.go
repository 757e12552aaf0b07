package database

import (
	"rentalhub/internal/models"
	"rentalhub/pkg/logger"
)

// Migrate creates or updates every table.
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := DB.AutoMigrate(
		&models.User{},
		&models.PropertyBlock{},
		&models.Property{},
		&models.PropertyImage{},
		&models.PropertyUnit{},
		&models.PropertyDetail{},
		&models.PropertyDetailImage{},
		// back office
		&models.LandlordProfile{},
		&models.LandlordDocument{},
		&models.LandlordPayment{},
		&models.TenantProfile{},
		&models.TenantDocument{},
		&models.TenantReference{},
		// engagement
		&models.Booking{},
		&models.PropertyInterest{},
		&models.FormDraft{},
	)
	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
