// Package database manages the relational store connection.
package database

import (
	"fmt"

	"github.com/campus-labs/lms-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresConfig holds connection parameters for the database.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

// Connect opens a GORM connection to PostgreSQL.
func Connect(cfg PostgresConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.TimeZone)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Role{},
		&models.Course{},
		&models.Module{},
		&models.ActivityType{},
		&models.Activity{},
		&models.User{},
	)
}
