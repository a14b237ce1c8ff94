package models

import (
	"time"

	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// User represents a back-office account (administrator or operator).
// Table: users
// Login is unique; PasswordHash is a bcrypt hash.
type User struct {
	ID   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`

	Login        string `gorm:"size:64;not null;uniqueIndex:uk_users_login" json:"login"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255;not null" json:"full_name"`
	Role         string `gorm:"size:20;not null;default:'operator';index:idx_users_role" json:"role"`

	IsActive    *bool      `gorm:"default:true;index:idx_users_is_active" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// BeforeCreate ensures UUID and timestamps are set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = utils.UTCNow()
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserFilter represents filter criteria for user queries
type UserFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Login         *string
	Role          *string
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
