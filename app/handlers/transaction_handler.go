package handlers

import (
	"log"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/app/middleware"
	businessflow "github.com/calldesk-crm/calldesk/business_flow"
	"github.com/gofiber/fiber/v3"
)

// TransactionHandlerInterface defines the contract for cash transaction handlers
type TransactionHandlerInterface interface {
	Create(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Balance(c fiber.Ctx) error
}

// TransactionHandler handles cash movement HTTP endpoints
type TransactionHandler struct {
	baseHandler
	transactionFlow businessflow.TransactionFlow
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(transactionFlow businessflow.TransactionFlow) *TransactionHandler {
	return &TransactionHandler{
		baseHandler:     newBaseHandler(),
		transactionFlow: transactionFlow,
	}
}

// Create records a cash movement
// @Summary Record transaction
// @Description Record an income or expense, optionally tied to a request or master
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction data"
// @Success 201 {object} dto.APIResponse{data=dto.CreateTransactionResponse} "Transaction recorded"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Referenced request or master not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	var req dto.CreateTransactionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.transactionFlow.CreateTransaction(h.createRequestContext(c, "/api/v1/transactions"), userID, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidDirection(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Direction must be income or expense", "INVALID_DIRECTION", nil)
		}
		if businessflow.IsAmountNotPositive(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Amount must be positive", "INVALID_AMOUNT", nil)
		}
		if businessflow.IsRequestNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Request not found", "REQUEST_NOT_FOUND", nil)
		}
		if businessflow.IsMasterNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Master not found", "MASTER_NOT_FOUND", nil)
		}

		log.Println("Transaction creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record transaction", "TRANSACTION_CREATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, result.Message, result)
}

// List returns a filtered, paginated transaction listing
// @Summary List transactions
// @Description List cash transactions filtered by direction, category, references and period
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.ListTransactionsRequest true "Filter criteria"
// @Success 200 {object} dto.APIResponse{data=dto.ListTransactionsResponse} "Transactions retrieved"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/transactions/list [post]
func (h *TransactionHandler) List(c fiber.Ctx) error {
	var req dto.ListTransactionsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validateStruct(c, &req); err != nil {
		return err
	}

	metadata := h.clientMetadata(c)

	result, err := h.transactionFlow.ListTransactions(h.createRequestContext(c, "/api/v1/transactions/list"), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_PERIOD", nil)
		}

		log.Println("Transaction listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list transactions", "TRANSACTION_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}

// Balance returns income, expense and balance totals over a period
// @Summary Cash balance
// @Description Calculate total income, expense and balance over an optional period
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body dto.ReportPeriodRequest true "Period boundaries"
// @Success 200 {object} dto.APIResponse{data=dto.BalanceResponse} "Balance calculated"
// @Failure 400 {object} dto.APIResponse "Invalid period"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/transactions/balance [post]
func (h *TransactionHandler) Balance(c fiber.Ctx) error {
	var req dto.ReportPeriodRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	metadata := h.clientMetadata(c)

	result, err := h.transactionFlow.Balance(h.createRequestContext(c, "/api/v1/transactions/balance"), &req, metadata)
	if err != nil {
		if businessflow.IsStartDateAfterEndDate(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "INVALID_PERIOD", nil)
		}

		log.Println("Balance calculation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to calculate balance", "BALANCE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, result.Message, result)
}
