package dto

import "time"

// ReportPeriodRequest represents the reporting period boundaries
type ReportPeriodRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// ReportSummaryResponse represents aggregated request and cash figures
// over a period
type ReportSummaryResponse struct {
	Message          string           `json:"message" example:"Report generated successfully"`
	PeriodStart      string           `json:"period_start,omitempty" example:"2024-01-01T00:00:00Z"`
	PeriodEnd        string           `json:"period_end,omitempty" example:"2024-01-31T23:59:59Z"`
	TotalRequests    int64            `json:"total_requests" example:"87"`
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
	RequestsByType   map[string]int64 `json:"requests_by_type"`
	LinkedRecordings int64            `json:"linked_recordings" example:"54"`
	TotalIncome      float64          `json:"total_income" example:"120000.00"`
	TotalExpense     float64          `json:"total_expense" example:"45000.00"`
	Balance          float64          `json:"balance" example:"75000.00"`
}
