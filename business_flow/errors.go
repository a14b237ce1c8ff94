// Package businessflow contains the business logic for the application.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrInvalidCaptcha     = errors.New("invalid captcha")
	ErrAdminRoleRequired  = errors.New("admin role required")
	ErrLoginAlreadyExists = errors.New("login already exists")

	// Call event errors
	ErrMissingCallerNumber = errors.New("caller number is missing or malformed")

	// Request-related errors
	ErrRequestNotFound = errors.New("request not found")
	ErrInvalidStatus   = errors.New("invalid request status")
	ErrMasterNotFound  = errors.New("master not found")
	ErrMasterInactive  = errors.New("master is inactive")

	// Campaign-related errors
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignPhoneExists  = errors.New("campaign phone number already exists")
	ErrCampaignPhoneInvalid = errors.New("campaign phone number is malformed")

	// Transaction-related errors
	ErrAmountNotPositive = errors.New("amount must be positive")
	ErrInvalidDirection  = errors.New("direction must be income or expense")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsAdminRoleRequired(err error) bool {
	return errors.Is(err, ErrAdminRoleRequired)
}

func IsLoginAlreadyExists(err error) bool {
	return errors.Is(err, ErrLoginAlreadyExists)
}

func IsMissingCallerNumber(err error) bool {
	return errors.Is(err, ErrMissingCallerNumber)
}

func IsRequestNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsMasterNotFound(err error) bool {
	return errors.Is(err, ErrMasterNotFound)
}

func IsMasterInactive(err error) bool {
	return errors.Is(err, ErrMasterInactive)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignPhoneExists(err error) bool {
	return errors.Is(err, ErrCampaignPhoneExists)
}

func IsCampaignPhoneInvalid(err error) bool {
	return errors.Is(err, ErrCampaignPhoneInvalid)
}

func IsAmountNotPositive(err error) bool {
	return errors.Is(err, ErrAmountNotPositive)
}

func IsInvalidDirection(err error) bool {
	return errors.Is(err, ErrInvalidDirection)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
