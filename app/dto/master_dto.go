package dto

// CreateMasterRequest represents creation of a field worker entry
type CreateMasterRequest struct {
	FullName string  `json:"full_name" validate:"required,max=255" example:"Sergey Ivanov"`
	Phone    string  `json:"phone" validate:"required,min=5,max=20" example:"+79005556677"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// MasterItem represents a master row in list responses
type MasterItem struct {
	ID       uint    `json:"id" example:"7"`
	UUID     string  `json:"uuid"`
	FullName string  `json:"full_name" example:"Sergey Ivanov"`
	Phone    string  `json:"phone" example:"79005556677"`
	Note     *string `json:"note,omitempty"`
	IsActive *bool   `json:"is_active" example:"true"`
}

// ListMastersResponse represents the master listing
type ListMastersResponse struct {
	Message string       `json:"message" example:"Masters retrieved successfully"`
	Items   []MasterItem `json:"items"`
}

// CreateMasterResponse represents the created master acknowledgement
type CreateMasterResponse struct {
	Message string `json:"message" example:"Master created successfully"`
	ID      uint   `json:"id" example:"7"`
	UUID    string `json:"uuid"`
}
