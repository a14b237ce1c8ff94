package dto

import "time"

// LoginRequest represents the request payload for operator login
type LoginRequest struct {
	Login    string `json:"login" validate:"required,min=3,max=64" example:"operator1"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// AdminLoginRequest represents the admin login payload; admins must
// additionally solve a rotate captcha
type AdminLoginRequest struct {
	Login        string `json:"login" validate:"required,min=3,max=64" example:"admin"`
	Password     string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
	CaptchaID    string `json:"captcha_id" validate:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	CaptchaAngle int    `json:"captcha_angle" validate:"required" example:"162"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Message      string    `json:"message" example:"Login successful"`
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string    `json:"token_type" example:"Bearer"`
	ExpiresIn    int       `json:"expires_in" example:"3600"`
	ExpiresAt    time.Time `json:"expires_at" example:"2024-01-15T16:30:00Z"`
	User         UserInfo  `json:"user"`
}

// UserInfo represents user information returned in login responses
type UserInfo struct {
	ID          uint   `json:"id" example:"1"`
	UUID        string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Login       string `json:"login" example:"operator1"`
	FullName    string `json:"full_name" example:"Ivan Petrov"`
	Role        string `json:"role" example:"operator"`
	IsActive    *bool  `json:"is_active" example:"true"`
	LastLoginAt string `json:"last_login_at,omitempty" example:"2024-01-14T09:00:00Z"`
}

// CaptchaResponse represents a generated rotate captcha challenge
type CaptchaResponse struct {
	CaptchaID   string `json:"captcha_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	MasterImage string `json:"master_image"`
	ThumbImage  string `json:"thumb_image"`
	ExpiresIn   int    `json:"expires_in" example:"120"`
}

// Common error codes for login operations
const (
	ErrorUserNotFound      = "USER_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorAccountInactive   = "ACCOUNT_INACTIVE"
	ErrorInvalidCaptcha    = "INVALID_CAPTCHA"
)
