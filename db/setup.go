package db

import (
	"github.com/gamefit-dev/gamefit/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return nil, err
	}

	return database, nil
}

func MigrateDatabase(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Exercise{},
		&models.Achievement{},
	}

	migrator := database.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := database.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
