package models

import (
	"time"

	"gorm.io/datatypes"
)

// Genre, Theme and Keyword are flat id -> name lookup tables. Scoring never
// touches them; they exist for result enrichment only.

type Genre struct {
	ID         int64          `gorm:"primaryKey;comment:IGDB genre id"`
	Name       string         `gorm:"type:text;not null;comment:display name"`
	LastSeenAt time.Time      `gorm:"type:timestamptz;not null;comment:last sync touch"`
	RawJSON    datatypes.JSON `gorm:"type:jsonb;not null;comment:raw upstream payload"`
}

func (Genre) TableName() string {
	return "catalog_genres"
}

type Theme struct {
	ID         int64          `gorm:"primaryKey;comment:IGDB theme id"`
	Name       string         `gorm:"type:text;not null;comment:display name"`
	LastSeenAt time.Time      `gorm:"type:timestamptz;not null;comment:last sync touch"`
	RawJSON    datatypes.JSON `gorm:"type:jsonb;not null;comment:raw upstream payload"`
}

func (Theme) TableName() string {
	return "catalog_themes"
}

type Keyword struct {
	ID         int64          `gorm:"primaryKey;comment:IGDB keyword id"`
	Name       string         `gorm:"type:text;not null;comment:display name"`
	LastSeenAt time.Time      `gorm:"type:timestamptz;not null;comment:last sync touch"`
	RawJSON    datatypes.JSON `gorm:"type:jsonb;not null;comment:raw upstream payload"`
}

func (Keyword) TableName() string {
	return "catalog_keywords"
}
