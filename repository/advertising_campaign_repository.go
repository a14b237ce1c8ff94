package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/calldesk-crm/calldesk/models"
	"gorm.io/gorm"
)

// AdvertisingCampaignRepositoryImpl implements AdvertisingCampaignRepository using GORM
type AdvertisingCampaignRepositoryImpl struct {
	*BaseRepository[models.AdvertisingCampaign, models.AdvertisingCampaignFilter]
}

// NewAdvertisingCampaignRepository creates a new campaign repository instance
func NewAdvertisingCampaignRepository(db *gorm.DB) AdvertisingCampaignRepository {
	return &AdvertisingCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AdvertisingCampaign, models.AdvertisingCampaignFilter](db),
	}
}

func (r *AdvertisingCampaignRepositoryImpl) applyFilter(query *gorm.DB, filter models.AdvertisingCampaignFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		query = query.Where("name = ?", *filter.Name)
	}
	if filter.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *filter.PhoneNumber)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves campaigns matching the filter criteria
func (r *AdvertisingCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.AdvertisingCampaignFilter, orderBy string, limit, offset int) ([]*models.AdvertisingCampaign, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.AdvertisingCampaign{}), filter)

	if orderBy == "" {
		orderBy = "id DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var campaigns []*models.AdvertisingCampaign
	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find campaigns by filter: %w", err)
	}

	return campaigns, nil
}

// Count returns the number of campaigns matching the filter criteria
func (r *AdvertisingCampaignRepositoryImpl) Count(ctx context.Context, filter models.AdvertisingCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.AdvertisingCampaign{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	return count, nil
}

// Exists checks whether any campaign matches the filter criteria
func (r *AdvertisingCampaignRepositoryImpl) Exists(ctx context.Context, filter models.AdvertisingCampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByPhoneNumber returns the first active campaign with the given normalized
// phone number, or nil when no campaign matches.
func (r *AdvertisingCampaignRepositoryImpl) ByPhoneNumber(ctx context.Context, phone string) (*models.AdvertisingCampaign, error) {
	db := r.getDB(ctx)

	var campaign models.AdvertisingCampaign
	err := db.Where("phone_number = ? AND is_active = ?", phone, true).
		Order("id ASC").
		First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find campaign by phone number: %w", err)
	}

	return &campaign, nil
}
