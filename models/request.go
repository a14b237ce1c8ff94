// Package models contains domain entities and business models for the CRM
package models

import (
	"time"

	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Request type classification, determined from call history at creation time.
const (
	RequestTypeNewCaller    = "new_caller"
	RequestTypeRepeatCaller = "repeat_caller"
)

// Request lifecycle statuses.
const (
	RequestStatusNew        = "new"
	RequestStatusInProgress = "in_progress"
	RequestStatusDone       = "done"
	RequestStatusCancelled  = "cancelled"
	RequestStatusRejected   = "rejected"
)

// Request represents a customer service ticket created from an inbound call
// or entered manually by an operator.
// Table: requests
// Indices: uuid, client_phone, created_at, status
// ClientPhone is stored in normalized form (see utils.NormalizePhone) and is
// the join key for call deduplication and recording linking.
// Photos stored as TEXT[] (receipt/BSO photo paths)
// Timestamps default to UTC at DB level
type Request struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;default:gen_random_uuid()" json:"uuid"`

	ClientPhone   string  `gorm:"size:20;not null;index:idx_requests_client_phone" json:"client_phone"`
	ClientName    *string `gorm:"size:255" json:"client_name,omitempty"`
	ClientAddress *string `gorm:"size:512" json:"client_address,omitempty"`

	AdvertisingCampaignID *uint  `gorm:"index" json:"advertising_campaign_id,omitempty"`
	RequestType           string `gorm:"size:20;not null;default:'new_caller'" json:"request_type"`
	Status                string `gorm:"size:20;not null;default:'new';index:idx_requests_status" json:"status"`

	MasterID *uint `gorm:"index" json:"master_id,omitempty"`

	RecordingFilePath *string        `gorm:"size:512" json:"recording_file_path,omitempty"`
	Photos            pq.StringArray `gorm:"type:text[];not null;default:'{}'" json:"photos"`
	Comment           *string        `gorm:"type:text" json:"comment,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_requests_created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	AdvertisingCampaign *AdvertisingCampaign `gorm:"foreignKey:AdvertisingCampaignID;references:ID" json:"advertising_campaign,omitempty"`
	Master              *Master              `gorm:"foreignKey:MasterID;references:ID" json:"master,omitempty"`
}

func (Request) TableName() string { return "requests" }

// BeforeCreate ensures UUID and timestamps are set
func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == uuid.Nil {
		r.UUID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = utils.UTCNow()
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// RequestFilter represents filter criteria for request queries
type RequestFilter struct {
	ID                    *uint      `json:"id,omitempty"`
	UUID                  *uuid.UUID `json:"uuid,omitempty"`
	ClientPhone           *string    `json:"client_phone,omitempty"`
	RequestType           *string    `json:"request_type,omitempty"`
	Status                *string    `json:"status,omitempty"`
	MasterID              *uint      `json:"master_id,omitempty"`
	AdvertisingCampaignID *uint      `json:"advertising_campaign_id,omitempty"`
	HasRecording          *bool      `json:"has_recording,omitempty"`
	CreatedAfter          *time.Time `json:"created_after,omitempty"`
	CreatedBefore         *time.Time `json:"created_before,omitempty"`
}
