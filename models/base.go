package models

import "time"

// BaseModel is embedded by every persisted entity.
// No soft-delete column: panel deletion is a permanent removal.
type BaseModel struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
