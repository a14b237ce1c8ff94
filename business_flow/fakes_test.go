package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
)

func testCtx() context.Context {
	return context.Background()
}

func testMetadata() *ClientMetadata {
	return NewClientMetadata("127.0.0.1", "go-test")
}

// fakeRequestRepo is an in-memory RequestRepository for flow tests
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests []*models.Request
	nextID   uint

	saveErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{}
}

func (r *fakeRequestRepo) add(req *models.Request) *models.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	req.ID = r.nextID
	if req.UUID == uuid.Nil {
		req.UUID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = utils.UTCNow()
	}
	r.requests = append(r.requests, req)
	return req
}

func (r *fakeRequestRepo) ByID(ctx context.Context, id uint) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) matches(req *models.Request, filter models.RequestFilter) bool {
	if filter.ClientPhone != nil && req.ClientPhone != *filter.ClientPhone {
		return false
	}
	if filter.RequestType != nil && req.RequestType != *filter.RequestType {
		return false
	}
	if filter.Status != nil && req.Status != *filter.Status {
		return false
	}
	if filter.HasRecording != nil && *filter.HasRecording != (req.RecordingFilePath != nil) {
		return false
	}
	if filter.CreatedAfter != nil && req.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && req.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}
	return true
}

func (r *fakeRequestRepo) ByFilter(ctx context.Context, filter models.RequestFilter, orderBy string, limit, offset int) ([]*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Request
	for _, req := range r.requests {
		if r.matches(req, filter) {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) Save(ctx context.Context, entity *models.Request) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.add(entity)
	return nil
}

func (r *fakeRequestRepo) SaveBatch(ctx context.Context, entities []*models.Request) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRequestRepo) Count(ctx context.Context, filter models.RequestFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, req := range r.requests {
		if r.matches(req, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) Exists(ctx context.Context, filter models.RequestFilter) (bool, error) {
	count, _ := r.Count(ctx, filter)
	return count > 0, nil
}

func (r *fakeRequestRepo) ByUUID(ctx context.Context, uuidStr string) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.UUID.String() == uuidStr {
			return req, nil
		}
	}
	return nil, nil
}

func (r *fakeRequestRepo) LatestByPhoneSince(ctx context.Context, phone string, since time.Time) (*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.Request
	for _, req := range r.requests {
		if req.ClientPhone != phone || req.CreatedAt.Before(since) {
			continue
		}
		if latest == nil || req.CreatedAt.After(latest.CreatedAt) {
			latest = req
		}
	}
	return latest, nil
}

func (r *fakeRequestRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ClientPhone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) ByPhonesWithin(ctx context.Context, phones []string, center time.Time, tolerance time.Duration) ([]*models.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	from, to := center.Add(-tolerance), center.Add(tolerance)
	var out []*models.Request
	for _, req := range r.requests {
		for _, p := range phones {
			if req.ClientPhone == p && !req.CreatedAt.Before(from) && !req.CreatedAt.After(to) {
				out = append(out, req)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) AttachRecording(ctx context.Context, requestID uint, path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID != requestID {
			continue
		}
		if req.RecordingFilePath != nil {
			return false, nil
		}
		req.RecordingFilePath = &path
		return true, nil
	}
	return false, nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, requestID uint, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == requestID {
			req.Status = status
		}
	}
	return nil
}

func (r *fakeRequestRepo) AssignMaster(ctx context.Context, requestID uint, masterID *uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == requestID {
			req.MasterID = masterID
		}
	}
	return nil
}

func (r *fakeRequestRepo) AppendPhoto(ctx context.Context, requestID uint, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.ID == requestID {
			req.Photos = append(req.Photos, path)
		}
	}
	return nil
}

func (r *fakeRequestRepo) all() []*models.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Request, len(r.requests))
	copy(out, r.requests)
	return out
}

// fakeCampaignRepo is an in-memory AdvertisingCampaignRepository
type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns []*models.AdvertisingCampaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{}
}

func (r *fakeCampaignRepo) add(c *models.AdvertisingCampaign) *models.AdvertisingCampaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uint(len(r.campaigns) + 1)
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	r.campaigns = append(r.campaigns, c)
	return c
}

func (r *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.AdvertisingCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.AdvertisingCampaignFilter, orderBy string, limit, offset int) ([]*models.AdvertisingCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.AdvertisingCampaign
	for _, c := range r.campaigns {
		if filter.PhoneNumber != nil && c.PhoneNumber != *filter.PhoneNumber {
			continue
		}
		if filter.IsActive != nil && (c.IsActive == nil || *c.IsActive != *filter.IsActive) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Save(ctx context.Context, entity *models.AdvertisingCampaign) error {
	r.add(entity)
	return nil
}

func (r *fakeCampaignRepo) SaveBatch(ctx context.Context, entities []*models.AdvertisingCampaign) error {
	for _, e := range entities {
		r.add(e)
	}
	return nil
}

func (r *fakeCampaignRepo) Count(ctx context.Context, filter models.AdvertisingCampaignFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeCampaignRepo) Exists(ctx context.Context, filter models.AdvertisingCampaignFilter) (bool, error) {
	count, _ := r.Count(ctx, filter)
	return count > 0, nil
}

func (r *fakeCampaignRepo) ByPhoneNumber(ctx context.Context, phone string) (*models.AdvertisingCampaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.PhoneNumber == phone {
			return c, nil
		}
	}
	return nil, nil
}

// fakeMasterRepo is an in-memory MasterRepository
type fakeMasterRepo struct {
	mu      sync.Mutex
	masters []*models.Master
}

func newFakeMasterRepo() *fakeMasterRepo {
	return &fakeMasterRepo{}
}

func (r *fakeMasterRepo) add(m *models.Master) *models.Master {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uint(len(r.masters) + 1)
	if m.UUID == uuid.Nil {
		m.UUID = uuid.New()
	}
	r.masters = append(r.masters, m)
	return m
}

func (r *fakeMasterRepo) ByID(ctx context.Context, id uint) (*models.Master, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.masters {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMasterRepo) ByFilter(ctx context.Context, filter models.MasterFilter, orderBy string, limit, offset int) ([]*models.Master, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Master
	for _, m := range r.masters {
		if filter.IsActive != nil && (m.IsActive == nil || *m.IsActive != *filter.IsActive) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMasterRepo) Save(ctx context.Context, entity *models.Master) error {
	r.add(entity)
	return nil
}

func (r *fakeMasterRepo) SaveBatch(ctx context.Context, entities []*models.Master) error {
	for _, e := range entities {
		r.add(e)
	}
	return nil
}

func (r *fakeMasterRepo) Count(ctx context.Context, filter models.MasterFilter) (int64, error) {
	rows, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (r *fakeMasterRepo) Exists(ctx context.Context, filter models.MasterFilter) (bool, error) {
	count, _ := r.Count(ctx, filter)
	return count > 0, nil
}

// fakeTransactionRepo is an in-memory CashTransactionRepository
type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*models.CashTransaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) matches(t *models.CashTransaction, filter models.CashTransactionFilter) bool {
	if filter.Direction != nil && t.Direction != *filter.Direction {
		return false
	}
	if filter.Category != nil && (t.Category == nil || *t.Category != *filter.Category) {
		return false
	}
	if filter.RequestID != nil && (t.RequestID == nil || *t.RequestID != *filter.RequestID) {
		return false
	}
	if filter.MasterID != nil && (t.MasterID == nil || *t.MasterID != *filter.MasterID) {
		return false
	}
	if filter.CreatedAfter != nil && t.CreatedAt.Before(*filter.CreatedAfter) {
		return false
	}
	if filter.CreatedBefore != nil && t.CreatedAt.After(*filter.CreatedBefore) {
		return false
	}
	return true
}

func (r *fakeTransactionRepo) ByID(ctx context.Context, id uint) (*models.CashTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionRepo) ByFilter(ctx context.Context, filter models.CashTransactionFilter, orderBy string, limit, offset int) ([]*models.CashTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.CashTransaction
	for _, t := range r.transactions {
		if r.matches(t, filter) {
			matched = append(matched, t)
		}
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *fakeTransactionRepo) Save(ctx context.Context, entity *models.CashTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity.ID = uint(len(r.transactions) + 1)
	if entity.UUID == uuid.Nil {
		entity.UUID = uuid.New()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = utils.UTCNow()
	}
	r.transactions = append(r.transactions, entity)
	return nil
}

func (r *fakeTransactionRepo) SaveBatch(ctx context.Context, entities []*models.CashTransaction) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTransactionRepo) Count(ctx context.Context, filter models.CashTransactionFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, t := range r.transactions {
		if r.matches(t, filter) {
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) Exists(ctx context.Context, filter models.CashTransactionFilter) (bool, error) {
	count, _ := r.Count(ctx, filter)
	return count > 0, nil
}

func (r *fakeTransactionRepo) SumByDirection(ctx context.Context, filter models.CashTransactionFilter, direction string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, t := range r.transactions {
		if t.Direction == direction && r.matches(t, filter) {
			sum += t.Amount
		}
	}
	return sum, nil
}
