package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestRepositoryImpl implements RequestRepository using GORM
type RequestRepositoryImpl struct {
	*BaseRepository[models.Request, models.RequestFilter]
}

// NewRequestRepository creates a new request repository instance
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Request, models.RequestFilter](db),
	}
}

func (r *RequestRepositoryImpl) applyFilter(query *gorm.DB, filter models.RequestFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.ClientPhone != nil {
		query = query.Where("client_phone = ?", *filter.ClientPhone)
	}
	if filter.RequestType != nil {
		query = query.Where("request_type = ?", *filter.RequestType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.MasterID != nil {
		query = query.Where("master_id = ?", *filter.MasterID)
	}
	if filter.AdvertisingCampaignID != nil {
		query = query.Where("advertising_campaign_id = ?", *filter.AdvertisingCampaignID)
	}
	if filter.HasRecording != nil {
		if *filter.HasRecording {
			query = query.Where("recording_file_path IS NOT NULL")
		} else {
			query = query.Where("recording_file_path IS NULL")
		}
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves requests matching the filter criteria
func (r *RequestRepositoryImpl) ByFilter(ctx context.Context, filter models.RequestFilter, orderBy string, limit, offset int) ([]*models.Request, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Request{}), filter)

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

	var requests []*models.Request
	err := query.Preload("AdvertisingCampaign").Preload("Master").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests by filter: %w", err)
	}

	return requests, nil
}

// Count returns the number of requests matching the filter criteria
func (r *RequestRepositoryImpl) Count(ctx context.Context, filter models.RequestFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.Request{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}

	return count, nil
}

// Exists checks whether any request matches the filter criteria
func (r *RequestRepositoryImpl) Exists(ctx context.Context, filter models.RequestFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ByUUID retrieves a request by its UUID
func (r *RequestRepositoryImpl) ByUUID(ctx context.Context, uuidStr string) (*models.Request, error) {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		return nil, fmt.Errorf("invalid request UUID %q: %w", uuidStr, err)
	}

	db := r.getDB(ctx)

	var request models.Request
	err = db.Preload("AdvertisingCampaign").Preload("Master").
		Where("uuid = ?", id).
		Last(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find request by UUID: %w", err)
	}

	return &request, nil
}

// LatestByPhoneSince returns the most recent request for the phone created
// at or after the given instant, or nil when none exists.
func (r *RequestRepositoryImpl) LatestByPhoneSince(ctx context.Context, phone string, since time.Time) (*models.Request, error) {
	db := r.getDB(ctx)

	var request models.Request
	err := db.Where("client_phone = ? AND created_at >= ?", phone, since).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest request for phone: %w", err)
	}

	return &request, nil
}

// ExistsByPhone reports whether any request was ever created for the phone.
func (r *RequestRepositoryImpl) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.Exists(ctx, models.RequestFilter{ClientPhone: &phone})
}

// ByPhonesWithin lists requests whose phone matches any of the given numbers
// and whose creation time falls inside [center-tolerance, center+tolerance].
func (r *RequestRepositoryImpl) ByPhonesWithin(ctx context.Context, phones []string, center time.Time, tolerance time.Duration) ([]*models.Request, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var requests []*models.Request
	err := db.Where("client_phone IN ?", phones).
		Where("created_at BETWEEN ? AND ?", center.Add(-tolerance), center.Add(tolerance)).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find requests around %s: %w", center.Format(time.RFC3339), err)
	}

	return requests, nil
}

// AttachRecording sets recording_file_path only when the request has none
// yet. Returns true when the row was updated.
func (r *RequestRepositoryImpl) AttachRecording(ctx context.Context, requestID uint, path string) (bool, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return false, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Request{}).
		Where("id = ? AND recording_file_path IS NULL", requestID).
		Updates(map[string]any{
			"recording_file_path": path,
			"updated_at":          utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to attach recording to request %d: %w", requestID, result.Error)
		return false, err
	}

	return result.RowsAffected > 0, nil
}

// UpdateStatus updates the lifecycle status of a request
func (r *RequestRepositoryImpl) UpdateStatus(ctx context.Context, requestID uint, status string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Request{}).
		Where("id = ?", requestID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to update status of request %d: %w", requestID, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("request %d not found", requestID)
		return err
	}

	return nil
}

// AssignMaster sets or clears the master assigned to a request
func (r *RequestRepositoryImpl) AssignMaster(ctx context.Context, requestID uint, masterID *uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Request{}).
		Where("id = ?", requestID).
		Updates(map[string]any{
			"master_id":  masterID,
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to assign master on request %d: %w", requestID, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("request %d not found", requestID)
		return err
	}

	return nil
}

// AppendPhoto appends a stored photo path to the request's photos array
func (r *RequestRepositoryImpl) AppendPhoto(ctx context.Context, requestID uint, path string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	result := db.Model(&models.Request{}).
		Where("id = ?", requestID).
		Updates(map[string]any{
			"photos":     gorm.Expr("array_append(photos, ?)", path),
			"updated_at": utils.UTCNow(),
		})
	if result.Error != nil {
		err = fmt.Errorf("failed to append photo to request %d: %w", requestID, result.Error)
		return err
	}
	if result.RowsAffected == 0 {
		err = fmt.Errorf("request %d not found", requestID)
		return err
	}

	return nil
}
