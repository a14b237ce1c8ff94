// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToUserInfoDTO converts a user model to UserInfo for authentication responses
func ToUserInfoDTO(user models.User) dto.UserInfo {
	info := dto.UserInfo{
		ID:       user.ID,
		UUID:     user.UUID.String(),
		Login:    user.Login,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
	if user.LastLoginAt != nil {
		info.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	return info
}

// ToRequestItemDTO converts a request model to its listing representation
func ToRequestItemDTO(r models.Request) dto.RequestItem {
	item := dto.RequestItem{
		ID:                    r.ID,
		UUID:                  r.UUID.String(),
		ClientPhone:           r.ClientPhone,
		ClientName:            r.ClientName,
		ClientAddress:         r.ClientAddress,
		RequestType:           r.RequestType,
		Status:                r.Status,
		AdvertisingCampaignID: r.AdvertisingCampaignID,
		MasterID:              r.MasterID,
		RecordingFilePath:     r.RecordingFilePath,
		Photos:                r.Photos,
		Comment:               r.Comment,
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
	}
	if r.AdvertisingCampaign != nil {
		item.CampaignName = &r.AdvertisingCampaign.Name
	}
	if r.Master != nil {
		item.MasterName = &r.Master.FullName
	}
	return item
}
