package models

import (
	"time"

	"gorm.io/gorm"
)

// SoftDelete carries the tombstone columns shared by every soft-deletable
// table. Deleting never removes the row; it stamps deleted_at and clears
// is_active. Queries opt in to the filter through the Alive scope; there is
// no implicit global default.
type SoftDelete struct {
	DeletedAt *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	IsActive  bool       `gorm:"column:is_active;default:true" json:"is_active"`
}

// Alive filters out tombstoned rows.
func Alive(db *gorm.DB) *gorm.DB {
	return db.Where("deleted_at IS NULL")
}

// Timestamps are the columns gorm maintains on create/update.
type Timestamps struct {
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}
