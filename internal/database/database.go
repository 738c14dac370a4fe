package database

import (
	"log"

	"github.com/aarambh-bootcamp/registration-api/internal/config"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// A single writer connection serializes sqlite transactions, which is
	// what makes the capacity count-then-insert a strict cap.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to access underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Auto Migrate
	err = db.AutoMigrate(&models.SiteConfig{}, &models.Registration{}, &models.Admin{})
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
