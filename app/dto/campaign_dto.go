package dto

// CreateCampaignRequest represents creation of an advertising campaign
type CreateCampaignRequest struct {
	Name        string `json:"name" validate:"required,max=255" example:"Avito spring"`
	PhoneNumber string `json:"phone_number" validate:"required,min=5,max=20" example:"+79000000000"`
}

// CampaignItem represents a campaign row in list responses
type CampaignItem struct {
	ID          uint   `json:"id" example:"3"`
	UUID        string `json:"uuid"`
	Name        string `json:"name" example:"Avito spring"`
	PhoneNumber string `json:"phone_number" example:"79000000000"`
	IsActive    *bool  `json:"is_active" example:"true"`
}

// ListCampaignsResponse represents the campaign listing
type ListCampaignsResponse struct {
	Message string         `json:"message" example:"Campaigns retrieved successfully"`
	Items   []CampaignItem `json:"items"`
}

// CreateCampaignResponse represents the created campaign acknowledgement
type CreateCampaignResponse struct {
	Message string `json:"message" example:"Campaign created successfully"`
	ID      uint   `json:"id" example:"3"`
	UUID    string `json:"uuid"`
}
