package businessflow

import (
	"context"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/services"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
	"github.com/calldesk-crm/calldesk/utils"
	"golang.org/x/crypto/bcrypt"
)

// LoginFlow defines authentication operations for back-office users
type LoginFlow interface {
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	// AdminLogin requires the admin role and a solved rotate captcha.
	AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	GenerateCaptcha(ctx context.Context) (*dto.CaptchaResponse, error)
}

// LoginFlowImpl implements LoginFlow
type LoginFlowImpl struct {
	userRepo     repository.UserRepository
	tokenService services.TokenService
	captcha      services.CaptchaService
}

func NewLoginFlow(userRepo repository.UserRepository, tokenService services.TokenService, captcha services.CaptchaService) LoginFlow {
	return &LoginFlowImpl{
		userRepo:     userRepo,
		tokenService: tokenService,
		captcha:      captcha,
	}
}

func (f *LoginFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	user, err := f.authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}
	return f.issueTokens(ctx, user)
}

func (f *LoginFlowImpl) AdminLogin(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if f.captcha != nil && !f.captcha.VerifyRotate(ctx, req.CaptchaID, float64(req.CaptchaAngle)) {
		return nil, ErrInvalidCaptcha
	}

	user, err := f.authenticate(ctx, req.Login, req.Password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	return f.issueTokens(ctx, user)
}

func (f *LoginFlowImpl) GenerateCaptcha(ctx context.Context) (*dto.CaptchaResponse, error) {
	if f.captcha == nil {
		return nil, NewBusinessError("CAPTCHA_UNAVAILABLE", "Captcha service is not configured", nil)
	}

	challenge, err := f.captcha.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_GENERATION_FAILED", "Failed to generate captcha", err)
	}

	return &dto.CaptchaResponse{
		CaptchaID:   challenge.ID,
		MasterImage: challenge.MasterImageBase64,
		ThumbImage:  challenge.ThumbImageBase64,
		ExpiresIn:   int(challenge.TTL.Seconds()),
	}, nil
}

func (f *LoginFlowImpl) authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := f.userRepo.ByLogin(ctx, login)
	if err != nil {
		return nil, NewBusinessError("LOGIN_LOOKUP_FAILED", "Failed to look up user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

func (f *LoginFlowImpl) issueTokens(ctx context.Context, user *models.User) (*dto.LoginResponse, error) {
	accessToken, refreshToken, err := f.tokenService.GenerateTokens(user.ID, user.Role)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := f.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, NewBusinessError("LAST_LOGIN_UPDATE_FAILED", "Failed to record login", err)
	}

	ttl := f.tokenService.AccessTokenTTL()
	return &dto.LoginResponse{
		Message:      "Login successful",
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(ttl.Seconds()),
		ExpiresAt:    now.Add(ttl),
		User:         ToUserInfoDTO(*user),
	}, nil
}
