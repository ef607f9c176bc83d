package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game mirrors one IGDB game record. Attribute id slices are unordered sets;
// the ingestion layer deduplicates them before writing.
type Game struct {
	ID               int64                      `gorm:"primaryKey;comment:IGDB game id"`
	Name             string                     `gorm:"type:text;index;not null;comment:display name, lookup key"`
	GenreIDs         datatypes.JSONSlice[int64] `gorm:"type:jsonb;comment:genre id set"`
	KeywordIDs       datatypes.JSONSlice[int64] `gorm:"type:jsonb;comment:keyword id set"`
	ThemeIDs         datatypes.JSONSlice[int64] `gorm:"type:jsonb;comment:theme id set"`
	CollectionIDs    datatypes.JSONSlice[int64] `gorm:"type:jsonb;comment:collection (series) id set"`
	Remasters        datatypes.JSONSlice[int64] `gorm:"type:jsonb;comment:remaster game ids"`
	ParentGame       *int64                     `gorm:"comment:base game id when this is DLC/expansion"`
	VersionParent    *int64                     `gorm:"comment:base game id when this is an edition/port"`
	GameType         *int                       `gorm:"comment:IGDB game_type code"`
	CoverID          *int64                     `gorm:"comment:cover record id"`
	FirstReleaseDate *int64                     `gorm:"comment:unix seconds, may be negative"`
	TotalRating      *float64                   `gorm:"comment:aggregate rating 0-100"`
	LastSeenAt       time.Time                  `gorm:"type:timestamptz;not null;comment:last sync touch"`
	RawJSON          datatypes.JSON             `gorm:"type:jsonb;not null;comment:raw upstream payload"`
}

func (Game) TableName() string {
	return "catalog_games"
}
