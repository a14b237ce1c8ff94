package dto

import "time"

// CreateRequestRequest represents manual request creation by an operator
type CreateRequestRequest struct {
	ClientPhone           string  `json:"client_phone" validate:"required,min=5,max=20" example:"+79001112233"`
	ClientName            *string `json:"client_name,omitempty" validate:"omitempty,max=255" example:"Ivan Petrov"`
	ClientAddress         *string `json:"client_address,omitempty" validate:"omitempty,max=512" example:"Moscow, Tverskaya 1"`
	AdvertisingCampaignID *uint   `json:"advertising_campaign_id,omitempty" example:"3"`
	Comment               *string `json:"comment,omitempty" validate:"omitempty,max=2000" example:"Washing machine leaks"`
}

// CreateRequestResponse represents the created request acknowledgement
type CreateRequestResponse struct {
	Message     string `json:"message" example:"Request created successfully"`
	ID          uint   `json:"id" example:"42"`
	UUID        string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	RequestType string `json:"request_type" example:"new_caller"`
	CreatedAt   string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListRequestsRequest represents filter criteria for listing requests
type ListRequestsRequest struct {
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=new in_progress done cancelled rejected"`
	RequestType  *string    `json:"request_type,omitempty" validate:"omitempty,oneof=new_caller repeat_caller"`
	MasterID     *uint      `json:"master_id,omitempty"`
	ClientPhone  *string    `json:"client_phone,omitempty"`
	HasRecording *bool      `json:"has_recording,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Page         uint       `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize     uint       `json:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
}

// RequestItem represents a request row in list and detail responses
type RequestItem struct {
	ID                    uint     `json:"id" example:"42"`
	UUID                  string   `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	ClientPhone           string   `json:"client_phone" example:"79001112233"`
	ClientName            *string  `json:"client_name,omitempty"`
	ClientAddress         *string  `json:"client_address,omitempty"`
	RequestType           string   `json:"request_type" example:"new_caller"`
	Status                string   `json:"status" example:"new"`
	CampaignName          *string  `json:"campaign_name,omitempty"`
	AdvertisingCampaignID *uint    `json:"advertising_campaign_id,omitempty"`
	MasterID              *uint    `json:"master_id,omitempty"`
	MasterName            *string  `json:"master_name,omitempty"`
	RecordingFilePath     *string  `json:"recording_file_path,omitempty"`
	Photos                []string `json:"photos"`
	Comment               *string  `json:"comment,omitempty"`
	CreatedAt             string   `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListRequestsResponse represents the paginated request listing
type ListRequestsResponse struct {
	Message string        `json:"message" example:"Requests retrieved successfully"`
	Items   []RequestItem `json:"items"`
	Total   int64         `json:"total" example:"120"`
}

// UpdateRequestStatusRequest represents a lifecycle transition
type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress done cancelled rejected" example:"in_progress"`
}

// AssignMasterRequest represents master assignment; a nil master clears it
type AssignMasterRequest struct {
	MasterID *uint `json:"master_id" example:"7"`
}

// UpdateRequestResponse represents a generic request mutation acknowledgement
type UpdateRequestResponse struct {
	Message string `json:"message" example:"Request updated successfully"`
	ID      uint   `json:"id" example:"42"`
}

// UploadPhotoResponse represents a stored receipt/BSO photo acknowledgement
type UploadPhotoResponse struct {
	Message       string `json:"message" example:"Photo uploaded successfully"`
	Path          string `json:"path" example:"data/uploads/requests/2024-01-15/550e8400.jpg"`
	ThumbnailPath string `json:"thumbnail_path,omitempty" example:"data/uploads/requests/2024-01-15/550e8400_thumb.jpg"`
}
