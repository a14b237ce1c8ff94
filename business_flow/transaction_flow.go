package businessflow

import (
	"context"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/repository"
)

// TransactionFlow defines operations for cash movement tracking
type TransactionFlow interface {
	CreateTransaction(ctx context.Context, userID uint, req *dto.CreateTransactionRequest, metadata *ClientMetadata) (*dto.CreateTransactionResponse, error)
	ListTransactions(ctx context.Context, req *dto.ListTransactionsRequest, metadata *ClientMetadata) (*dto.ListTransactionsResponse, error)
	Balance(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) (*dto.BalanceResponse, error)
}

// TransactionFlowImpl implements TransactionFlow
type TransactionFlowImpl struct {
	transactionRepo repository.CashTransactionRepository
	requestRepo     repository.RequestRepository
	masterRepo      repository.MasterRepository
}

func NewTransactionFlow(transactionRepo repository.CashTransactionRepository, requestRepo repository.RequestRepository, masterRepo repository.MasterRepository) TransactionFlow {
	return &TransactionFlowImpl{
		transactionRepo: transactionRepo,
		requestRepo:     requestRepo,
		masterRepo:      masterRepo,
	}
}

func (f *TransactionFlowImpl) CreateTransaction(ctx context.Context, userID uint, req *dto.CreateTransactionRequest, metadata *ClientMetadata) (*dto.CreateTransactionResponse, error) {
	if req.Direction != models.TransactionIncome && req.Direction != models.TransactionExpense {
		return nil, ErrInvalidDirection
	}
	if req.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	if req.RequestID != nil {
		r, err := f.requestRepo.ByID(ctx, *req.RequestID)
		if err != nil {
			return nil, NewBusinessError("GET_REQUEST_FAILED", "Failed to load request", err)
		}
		if r == nil {
			return nil, ErrRequestNotFound
		}
	}
	if req.MasterID != nil {
		m, err := f.masterRepo.ByID(ctx, *req.MasterID)
		if err != nil {
			return nil, NewBusinessError("GET_MASTER_FAILED", "Failed to load master", err)
		}
		if m == nil {
			return nil, ErrMasterNotFound
		}
	}

	t := models.CashTransaction{
		Direction: req.Direction,
		Amount:    req.Amount,
		Category:  trimOptional(req.Category),
		Comment:   trimOptional(req.Comment),
		RequestID: req.RequestID,
		MasterID:  req.MasterID,
		CreatedBy: userID,
	}
	if err := f.transactionRepo.Save(ctx, &t); err != nil {
		return nil, NewBusinessError("TRANSACTION_INSERT_FAILED", "Failed to record transaction", err)
	}

	return &dto.CreateTransactionResponse{
		Message:   "Transaction recorded successfully",
		ID:        t.ID,
		UUID:      t.UUID.String(),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (f *TransactionFlowImpl) ListTransactions(ctx context.Context, req *dto.ListTransactionsRequest, metadata *ClientMetadata) (*dto.ListTransactionsResponse, error) {
	var err error
	defer func() {
		if err != nil {
			err = NewBusinessError("LIST_TRANSACTIONS_FAILED", "Failed to list transactions", err)
		}
	}()

	filter := models.CashTransactionFilter{
		Direction:     req.Direction,
		Category:      req.Category,
		RequestID:     req.RequestID,
		MasterID:      req.MasterID,
		CreatedAfter:  req.StartDate,
		CreatedBefore: req.EndDate,
	}
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, ErrStartDateAfterEndDate
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := int((page - 1) * pageSize)

	rows, err := f.transactionRepo.ByFilter(ctx, filter, "created_at DESC", int(pageSize), offset)
	if err != nil {
		return nil, err
	}
	total, err := f.transactionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TransactionItem, 0, len(rows))
	for _, t := range rows {
		items = append(items, dto.TransactionItem{
			ID:        t.ID,
			UUID:      t.UUID.String(),
			Direction: t.Direction,
			Amount:    t.Amount,
			Category:  t.Category,
			Comment:   t.Comment,
			RequestID: t.RequestID,
			MasterID:  t.MasterID,
			CreatedBy: t.CreatedBy,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListTransactionsResponse{
		Message: "Transactions retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

func (f *TransactionFlowImpl) Balance(ctx context.Context, req *dto.ReportPeriodRequest, metadata *ClientMetadata) (*dto.BalanceResponse, error) {
	filter := models.CashTransactionFilter{}
	if req != nil {
		filter.CreatedAfter = req.StartDate
		filter.CreatedBefore = req.EndDate
		if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
			return nil, ErrStartDateAfterEndDate
		}
	}

	income, err := f.transactionRepo.SumByDirection(ctx, filter, models.TransactionIncome)
	if err != nil {
		return nil, NewBusinessError("BALANCE_FAILED", "Failed to sum income", err)
	}
	expense, err := f.transactionRepo.SumByDirection(ctx, filter, models.TransactionExpense)
	if err != nil {
		return nil, NewBusinessError("BALANCE_FAILED", "Failed to sum expense", err)
	}

	return &dto.BalanceResponse{
		Message:      "Balance calculated successfully",
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income - expense,
	}, nil
}
