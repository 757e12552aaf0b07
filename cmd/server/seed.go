package main

import (
	"fmt"

	"rentalhub/internal/database"
	"rentalhub/internal/models"
	"rentalhub/internal/services"
	"rentalhub/pkg/config"
	"rentalhub/pkg/logger"

	"gorm.io/gorm"
)

// seedData creates the first admin account when none exists.
func seedData(cfg *config.Config) error {
	appLogger := logger.GetLogger()
	db := database.GetDB()

	var admins int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		appLogger.Warn("No admin account exists and SEED_ADMIN_EMAIL/SEED_ADMIN_PASSWORD are not set")
		return nil
	}

	users := services.NewUserService(db)
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := users.Create(tx, services.NewUser{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			FullName: cfg.Seed.AdminName,
			Role:     models.RoleAdmin,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("create admin %s: %w", cfg.Seed.AdminEmail, err)
	}

	appLogger.Infof("Created admin account %s", cfg.Seed.AdminEmail)
	return nil
}

