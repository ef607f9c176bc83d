package db

import (
	"gamerec/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Game{},
		&models.Cover{},
		&models.Genre{},
		&models.Theme{},
		&models.Keyword{},
		&models.SyncState{},
	)
}
