package db

import (
	"timberbid/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Auction{},
		&models.Bid{},
		&models.Notification{},
	)
}
