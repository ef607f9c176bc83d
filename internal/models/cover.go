package models

import (
	"time"

	"gorm.io/datatypes"
)

type Cover struct {
	ID         int64          `gorm:"primaryKey;comment:IGDB cover id"`
	GameID     *int64         `gorm:"index;comment:game this cover belongs to"`
	URL        string         `gorm:"type:text;not null;comment:upstream image path"`
	LastSeenAt time.Time      `gorm:"type:timestamptz;not null;comment:last sync touch"`
	RawJSON    datatypes.JSON `gorm:"type:jsonb;not null;comment:raw upstream payload"`
}

func (Cover) TableName() string {
	return "catalog_covers"
}
