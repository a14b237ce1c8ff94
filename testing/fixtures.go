package testing

import (
	"fmt"
	"time"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestFixtures provides helpers for creating domain entities in tests
type TestFixtures struct {
	db *gorm.DB
}

// NewTestFixtures creates a new fixtures helper bound to the given database
func NewTestFixtures(db *gorm.DB) *TestFixtures {
	return &TestFixtures{db: db}
}

// TestPassword is the plaintext behind every fixture user's password hash
const TestPassword = "TestPass123!"

// CreateTestUser creates a back-office account with the given login and role
func (f *TestFixtures) CreateTestUser(login, role string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash test password: %w", err)
	}

	user := &models.User{
		UUID:         uuid.New(),
		Login:        login,
		PasswordHash: string(hash),
		FullName:     "Test " + login,
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create test user: %w", err)
	}
	return user, nil
}

// CreateTestMaster creates an active field worker
func (f *TestFixtures) CreateTestMaster(fullName, phone string) (*models.Master, error) {
	master := &models.Master{
		UUID:     uuid.New(),
		FullName: fullName,
		Phone:    utils.NormalizePhone(phone),
		IsActive: utils.ToPtr(true),
	}

	if err := f.db.Create(master).Error; err != nil {
		return nil, fmt.Errorf("failed to create test master: %w", err)
	}
	return master, nil
}

// CreateTestCampaign creates an active advertising campaign bound to the given inbound number
func (f *TestFixtures) CreateTestCampaign(name, phoneNumber string) (*models.AdvertisingCampaign, error) {
	campaign := &models.AdvertisingCampaign{
		UUID:        uuid.New(),
		Name:        name,
		PhoneNumber: utils.NormalizePhone(phoneNumber),
		IsActive:    utils.ToPtr(true),
	}

	if err := f.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestRequest creates a request for the given client phone with creation
// time shifted by the given offset from now. Negative offsets put the request
// in the past, which is what deduplication tests need.
func (f *TestFixtures) CreateTestRequest(clientPhone string, createdOffset time.Duration) (*models.Request, error) {
	now := utils.UTCNow().Add(createdOffset)

	request := &models.Request{
		UUID:        uuid.New(),
		ClientPhone: utils.NormalizePhone(clientPhone),
		RequestType: models.RequestTypeNewCaller,
		Status:      models.RequestStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := f.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create test request: %w", err)
	}
	return request, nil
}

// CreateTestTransaction records a cash movement created by the given user
func (f *TestFixtures) CreateTestTransaction(direction string, amount float64, createdBy uint) (*models.CashTransaction, error) {
	transaction := &models.CashTransaction{
		UUID:      uuid.New(),
		Direction: direction,
		Amount:    amount,
		CreatedBy: createdBy,
	}

	if err := f.db.Create(transaction).Error; err != nil {
		return nil, fmt.Errorf("failed to create test transaction: %w", err)
	}
	return transaction, nil
}
