package models

import (
	"time"

	"gorm.io/datatypes"
)

type SyncState struct {
	Scope         string         `gorm:"primaryKey;type:text;comment:sync scope identifier"`
	Cursor        *string        `gorm:"type:text;comment:pagination cursor (offset)"`
	LastSuccessAt *time.Time     `gorm:"type:timestamptz;comment:last successful run"`
	LastAttemptAt *time.Time     `gorm:"type:timestamptz;comment:last attempted run"`
	LastError     *string        `gorm:"type:text;comment:last error message"`
	StatsJSON     datatypes.JSON `gorm:"type:jsonb;comment:per-run stats"`
}

func (SyncState) TableName() string {
	return "sync_state"
}
