package dto

// RecordingServiceStatusResponse represents the recording fetcher status snapshot
type RecordingServiceStatusResponse struct {
	Running        bool   `json:"running" example:"true"`
	LastCheckAt    string `json:"last_check_at,omitempty" example:"2024-01-15T10:30:00Z"`
	ProcessedCount int64  `json:"processed_count" example:"17"`
}

// RecordingServiceActionResponse represents the result of start/stop/download actions
type RecordingServiceActionResponse struct {
	Message string `json:"message" example:"Recording service started"`
	Running bool   `json:"running" example:"true"`
}

// RecordingDownloadResponse represents the result of a one-shot manual poll
type RecordingDownloadResponse struct {
	Message    string `json:"message" example:"Mailbox polled"`
	Downloaded int    `json:"downloaded" example:"3"`
	Linked     int    `json:"linked" example:"2"`
}
