package models

import (
	"time"

	"github.com/google/uuid"
)

// AdvertisingCampaign represents a marketing campaign with a dedicated
// inbound phone number. Dialed numbers from call events are resolved
// against PhoneNumber to attribute requests to campaigns.
// Table: advertising_campaigns
// PhoneNumber is stored normalized and unique
type AdvertisingCampaign struct {
	ID   uint      `gorm:"primaryKey" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_advertising_campaigns_uuid" json:"uuid"`

	Name        string `gorm:"size:255;not null" json:"name"`
	PhoneNumber string `gorm:"size:20;not null;uniqueIndex:uk_advertising_campaigns_phone" json:"phone_number"`

	IsActive  *bool     `gorm:"default:true;index:idx_advertising_campaigns_is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (AdvertisingCampaign) TableName() string {
	return "advertising_campaigns"
}

// AdvertisingCampaignFilter represents filter criteria for campaign queries
type AdvertisingCampaignFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Name          *string
	PhoneNumber   *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
