package repository

import (
	"context"
	"fmt"

	"github.com/calldesk-crm/calldesk/models"
	"gorm.io/gorm"
)

// CashTransactionRepositoryImpl implements CashTransactionRepository using GORM
type CashTransactionRepositoryImpl struct {
	*BaseRepository[models.CashTransaction, models.CashTransactionFilter]
}

// NewCashTransactionRepository creates a new cash transaction repository instance
func NewCashTransactionRepository(db *gorm.DB) CashTransactionRepository {
	return &CashTransactionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CashTransaction, models.CashTransactionFilter](db),
	}
}

func (r *CashTransactionRepositoryImpl) applyFilter(query *gorm.DB, filter models.CashTransactionFilter) *gorm.DB {
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		query = query.Where("uuid = ?", *filter.UUID)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.RequestID != nil {
		query = query.Where("request_id = ?", *filter.RequestID)
	}
	if filter.MasterID != nil {
		query = query.Where("master_id = ?", *filter.MasterID)
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	return query
}

// ByFilter retrieves transactions matching the filter criteria
func (r *CashTransactionRepositoryImpl) ByFilter(ctx context.Context, filter models.CashTransactionFilter, orderBy string, limit, offset int) ([]*models.CashTransaction, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.CashTransaction{}), filter)

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

	var transactions []*models.CashTransaction
	err := query.Preload("Request").Preload("Master").Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions by filter: %w", err)
	}

	return transactions, nil
}

// Count returns the number of transactions matching the filter criteria
func (r *CashTransactionRepositoryImpl) Count(ctx context.Context, filter models.CashTransactionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := r.applyFilter(db.Model(&models.CashTransaction{}), filter).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// Exists checks whether any transaction matches the filter criteria
func (r *CashTransactionRepositoryImpl) Exists(ctx context.Context, filter models.CashTransactionFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumByDirection returns the total amount of matching transactions with the
// given direction. Missing rows sum to zero.
func (r *CashTransactionRepositoryImpl) SumByDirection(ctx context.Context, filter models.CashTransactionFilter, direction string) (float64, error) {
	db := r.getDB(ctx)

	filter.Direction = &direction

	var total float64
	err := r.applyFilter(db.Model(&models.CashTransaction{}), filter).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum %s transactions: %w", direction, err)
	}

	return total, nil
}
