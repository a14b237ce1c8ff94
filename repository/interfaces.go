// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/calldesk-crm/calldesk/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// RequestRepository defines operations for customer requests
type RequestRepository interface {
	Repository[models.Request, models.RequestFilter]
	ByUUID(ctx context.Context, uuidStr string) (*models.Request, error)
	// LatestByPhoneSince returns the most recent request for the
	// normalized phone created at or after the given instant, or nil.
	LatestByPhoneSince(ctx context.Context, phone string, since time.Time) (*models.Request, error)
	// ExistsByPhone reports whether any request was ever created for the
	// normalized phone, regardless of age.
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	// ByPhonesWithin lists requests whose client phone matches any of the
	// given normalized numbers and whose creation time falls inside
	// [center-tolerance, center+tolerance].
	ByPhonesWithin(ctx context.Context, phones []string, center time.Time, tolerance time.Duration) ([]*models.Request, error)
	// AttachRecording sets recording_file_path on the request only when it
	// is currently unset; returns true when the update was applied.
	AttachRecording(ctx context.Context, requestID uint, path string) (bool, error)
	UpdateStatus(ctx context.Context, requestID uint, status string) error
	AssignMaster(ctx context.Context, requestID uint, masterID *uint) error
	AppendPhoto(ctx context.Context, requestID uint, path string) error
}

// AdvertisingCampaignRepository defines operations for advertising campaigns
type AdvertisingCampaignRepository interface {
	Repository[models.AdvertisingCampaign, models.AdvertisingCampaignFilter]
	// ByPhoneNumber returns the first active campaign whose normalized
	// phone equals the given normalized number, or nil.
	ByPhoneNumber(ctx context.Context, phone string) (*models.AdvertisingCampaign, error)
}

// MasterRepository defines operations for masters
type MasterRepository interface {
	Repository[models.Master, models.MasterFilter]
}

// UserRepository defines operations for back-office users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

// CashTransactionRepository defines operations for cash transactions
type CashTransactionRepository interface {
	Repository[models.CashTransaction, models.CashTransactionFilter]
	// SumByDirection returns the total amount of transactions matching the
	// filter and direction.
	SumByDirection(ctx context.Context, filter models.CashTransactionFilter, direction string) (float64, error)
}
