package models

import (
	"time"

	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cash transaction directions
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// CashTransaction represents a single cash movement: payment received for
// a request, payout to a master, or an operational expense.
// Table: cash_transactions
// Amount stored as NUMERIC(12,2); always positive, direction carries sign.
type CashTransaction struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	Direction string  `gorm:"size:10;not null;index:idx_cash_transactions_direction" json:"direction"`
	Amount    float64 `gorm:"type:numeric(12,2);not null" json:"amount"`
	Category  *string `gorm:"size:64" json:"category,omitempty"`
	Comment   *string `gorm:"type:text" json:"comment,omitempty"`

	RequestID *uint `gorm:"index" json:"request_id,omitempty"`
	MasterID  *uint `gorm:"index" json:"master_id,omitempty"`
	CreatedBy uint  `gorm:"not null;index" json:"created_by"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_cash_transactions_created_at" json:"created_at"`

	// Relations
	Request *Request `gorm:"foreignKey:RequestID;references:ID" json:"request,omitempty"`
	Master  *Master  `gorm:"foreignKey:MasterID;references:ID" json:"master,omitempty"`
}

func (CashTransaction) TableName() string { return "cash_transactions" }

// BeforeCreate ensures UUID and timestamp are set
func (t *CashTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CashTransactionFilter represents filter criteria for transaction queries
type CashTransactionFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Direction     *string
	Category      *string
	RequestID     *uint
	MasterID      *uint
	CreatedBy     *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
