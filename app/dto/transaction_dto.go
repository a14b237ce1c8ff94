package dto

import "time"

// CreateTransactionRequest represents a cash movement entry
type CreateTransactionRequest struct {
	Direction string  `json:"direction" validate:"required,oneof=income expense" example:"income"`
	Amount    float64 `json:"amount" validate:"required,gt=0" example:"4500.00"`
	Category  *string `json:"category,omitempty" validate:"omitempty,max=64" example:"repair_payment"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
	RequestID *uint   `json:"request_id,omitempty" example:"42"`
	MasterID  *uint   `json:"master_id,omitempty" example:"7"`
}

// CreateTransactionResponse represents the created transaction acknowledgement
type CreateTransactionResponse struct {
	Message   string `json:"message" example:"Transaction recorded successfully"`
	ID        uint   `json:"id" example:"10"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListTransactionsRequest represents filter criteria for listing transactions
type ListTransactionsRequest struct {
	Direction *string    `json:"direction,omitempty" validate:"omitempty,oneof=income expense"`
	Category  *string    `json:"category,omitempty"`
	RequestID *uint      `json:"request_id,omitempty"`
	MasterID  *uint      `json:"master_id,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      uint       `json:"page,omitempty" validate:"omitempty,min=1"`
	PageSize  uint       `json:"page_size,omitempty" validate:"omitempty,min=1,max=100"`
}

// TransactionItem represents a transaction row in list responses
type TransactionItem struct {
	ID        uint    `json:"id" example:"10"`
	UUID      string  `json:"uuid"`
	Direction string  `json:"direction" example:"income"`
	Amount    float64 `json:"amount" example:"4500.00"`
	Category  *string `json:"category,omitempty"`
	Comment   *string `json:"comment,omitempty"`
	RequestID *uint   `json:"request_id,omitempty"`
	MasterID  *uint   `json:"master_id,omitempty"`
	CreatedBy uint    `json:"created_by" example:"1"`
	CreatedAt string  `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// ListTransactionsResponse represents the paginated transaction listing
type ListTransactionsResponse struct {
	Message string            `json:"message" example:"Transactions retrieved successfully"`
	Items   []TransactionItem `json:"items"`
	Total   int64             `json:"total" example:"35"`
}

// BalanceResponse represents the cash balance summary over a period
type BalanceResponse struct {
	Message      string  `json:"message" example:"Balance calculated successfully"`
	TotalIncome  float64 `json:"total_income" example:"120000.00"`
	TotalExpense float64 `json:"total_expense" example:"45000.00"`
	Balance      float64 `json:"balance" example:"75000.00"`
}
