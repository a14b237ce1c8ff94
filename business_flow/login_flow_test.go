package businessflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/services"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) addUser(login, password, role string, active bool) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	r.mu.Lock()
	defer r.mu.Unlock()
	u := &models.User{
		ID:           uint(len(r.users) + 1),
		UUID:         uuid.New(),
		Login:        login,
		PasswordHash: string(hash),
		FullName:     "Test " + login,
		Role:         role,
		IsActive:     utils.ToPtr(active),
	}
	r.users = append(r.users, u)
	return u
}

func (r *fakeUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *fakeUserRepo) Save(ctx context.Context, entity *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = uint(len(r.users) + 1)
	r.users = append(r.users, entity)
	return nil
}

func (r *fakeUserRepo) SaveBatch(ctx context.Context, entities []*models.User) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, filter models.UserFilter) (bool, error) {
	count, _ := r.Count(ctx, filter)
	return count > 0, nil
}

func (r *fakeUserRepo) ByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Login == login {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.LastLoginAt = &at
		}
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

// fakeCaptcha accepts exactly one challenge ID
type fakeCaptcha struct {
	validID string
}

func (c *fakeCaptcha) GenerateRotate(ctx context.Context) (*services.RotateChallenge, error) {
	return &services.RotateChallenge{
		ID:                c.validID,
		MasterImageBase64: "master",
		ThumbImageBase64:  "thumb",
		TTL:               2 * time.Minute,
	}, nil
}

func (c *fakeCaptcha) VerifyRotate(ctx context.Context, challengeID string, userAngle float64) bool {
	return challengeID == c.validID
}

func newTestLoginFlow(t *testing.T, userRepo *fakeUserRepo, captcha services.CaptchaService) LoginFlow {
	t.Helper()
	tokenService, err := services.NewTokenService(
		time.Hour, 24*time.Hour,
		"calldesk-test", "calldesk-api",
		false, "", "",
		"test-secret-key-with-enough-entropy-123",
	)
	require.NoError(t, err)
	return NewLoginFlow(userRepo, tokenService, captcha)
}

func TestLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.addUser("operator1", "SecurePass123!", models.RoleOperator, true)
	flow := newTestLoginFlow(t, userRepo, nil)

	resp, err := flow.Login(testCtx(), &dto.LoginRequest{Login: "operator1", Password: "SecurePass123!"}, testMetadata())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "operator1", resp.User.Login)

	// Successful login is recorded
	stored, err := userRepo.ByLogin(testCtx(), "operator1")
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.addUser("operator1", "SecurePass123!", models.RoleOperator, true)
	userRepo.addUser("retired", "SecurePass123!", models.RoleOperator, false)
	flow := newTestLoginFlow(t, userRepo, nil)

	_, err := flow.Login(testCtx(), &dto.LoginRequest{Login: "nobody", Password: "SecurePass123!"}, testMetadata())
	assert.True(t, IsUserNotFound(err))

	_, err = flow.Login(testCtx(), &dto.LoginRequest{Login: "operator1", Password: "WrongPass123!"}, testMetadata())
	assert.True(t, IsIncorrectPassword(err))

	_, err = flow.Login(testCtx(), &dto.LoginRequest{Login: "retired", Password: "SecurePass123!"}, testMetadata())
	assert.True(t, IsAccountInactive(err))
}

func TestAdminLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.addUser("admin", "SecurePass123!", models.RoleAdmin, true)
	userRepo.addUser("operator1", "SecurePass123!", models.RoleOperator, true)

	captcha := &fakeCaptcha{validID: "challenge-1"}
	flow := newTestLoginFlow(t, userRepo, captcha)

	resp, err := flow.AdminLogin(testCtx(), &dto.AdminLoginRequest{
		Login:        "admin",
		Password:     "SecurePass123!",
		CaptchaID:    "challenge-1",
		CaptchaAngle: 90,
	}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)

	_, err = flow.AdminLogin(testCtx(), &dto.AdminLoginRequest{
		Login:        "admin",
		Password:     "SecurePass123!",
		CaptchaID:    "wrong-challenge",
		CaptchaAngle: 90,
	}, testMetadata())
	assert.True(t, IsInvalidCaptcha(err))

	// Operators cannot use the admin entry point
	_, err = flow.AdminLogin(testCtx(), &dto.AdminLoginRequest{
		Login:        "operator1",
		Password:     "SecurePass123!",
		CaptchaID:    "challenge-1",
		CaptchaAngle: 90,
	}, testMetadata())
	assert.True(t, IsAdminRoleRequired(err))
}

func TestGenerateCaptcha(t *testing.T) {
	flow := newTestLoginFlow(t, newFakeUserRepo(), &fakeCaptcha{validID: "challenge-1"})

	resp, err := flow.GenerateCaptcha(testCtx())
	require.NoError(t, err)
	assert.Equal(t, "challenge-1", resp.CaptchaID)
	assert.Equal(t, 120, resp.ExpiresIn)
	assert.NotEmpty(t, resp.MasterImage)
	assert.NotEmpty(t, resp.ThumbImage)
}
