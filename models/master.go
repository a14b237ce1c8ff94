package models

import (
	"time"

	"github.com/google/uuid"
)

// Master represents a field worker who executes requests.
// Table: masters
type Master struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_masters_uuid" json:"uuid"`

	FullName string  `gorm:"size:255;not null" json:"full_name"`
	Phone    string  `gorm:"size:20;not null" json:"phone"`
	Note     *string `gorm:"type:text" json:"note,omitempty"`

	IsActive  *bool     `gorm:"default:true;index:idx_masters_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (Master) TableName() string { return "masters" }

// MasterFilter represents filter criteria for master queries
type MasterFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	FullName      *string
	Phone         *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
