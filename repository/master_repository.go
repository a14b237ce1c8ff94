package repository

import (
	"context"
	"fmt"

	"github.com/calldesk-crm/calldesk/models"
	"gorm.io/gorm"
)

// MasterRepositoryImpl implements MasterRepository using GORM
type MasterRepositoryImpl struct {
	*BaseRepository[models.Master, models.MasterFilter]
}

// NewMasterRepository creates a new master repository instance
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &MasterRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Master, models.MasterFilter](db),
	}
}

func (r *MasterRepositoryImpl) applyFilter(query *gorm.DB, filter models.MasterFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.FullName != nil {
		query = query.Where("full_name = ?", *filter.FullName)
	}
	if filter.Phone != nil {
		query = query.Where("phone = ?", *filter.Phone)
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

// ByFilter retrieves masters matching the filter criteria
func (r *MasterRepositoryImpl) ByFilter(ctx context.Context, filter models.MasterFilter, orderBy string, limit, offset int) ([]*models.Master, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Master{}), filter)

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

	var masters []*models.Master
	err := query.Find(&masters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find masters by filter: %w", err)
	}

	return masters, nil
}

// Count returns the number of masters matching the filter criteria
func (r *MasterRepositoryImpl) Count(ctx context.Context, filter models.MasterFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Master{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count masters: %w", err)
	}

	return count, nil
}

// Exists checks whether any master matches the filter criteria
func (r *MasterRepositoryImpl) Exists(ctx context.Context, filter models.MasterFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
