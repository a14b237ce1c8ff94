package businessflow

import (
	"testing"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransactionFlow() (TransactionFlow, *fakeTransactionRepo, *fakeRequestRepo, *fakeMasterRepo) {
	transactionRepo := newFakeTransactionRepo()
	requestRepo := newFakeRequestRepo()
	masterRepo := newFakeMasterRepo()
	return NewTransactionFlow(transactionRepo, requestRepo, masterRepo), transactionRepo, requestRepo, masterRepo
}

func TestCreateTransaction(t *testing.T) {
	flow, transactionRepo, requestRepo, masterRepo := newTestTransactionFlow()

	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusDone})
	master := masterRepo.add(&models.Master{FullName: "Ivan Petrov", Phone: "79007654321"})

	resp, err := flow.CreateTransaction(testCtx(), 3, &dto.CreateTransactionRequest{
		Direction: models.TransactionIncome,
		Amount:    4500,
		Category:  utils.ToPtr("repair_payment"),
		RequestID: &req.ID,
		MasterID:  &master.ID,
	}, testMetadata())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)

	stored, err := transactionRepo.ByID(testCtx(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionIncome, stored.Direction)
	assert.Equal(t, 4500.0, stored.Amount)
	assert.Equal(t, uint(3), stored.CreatedBy)
}

func TestCreateTransactionValidation(t *testing.T) {
	flow, _, _, _ := newTestTransactionFlow()

	_, err := flow.CreateTransaction(testCtx(), 1, &dto.CreateTransactionRequest{Direction: "transfer", Amount: 100}, testMetadata())
	assert.True(t, IsInvalidDirection(err))

	_, err = flow.CreateTransaction(testCtx(), 1, &dto.CreateTransactionRequest{Direction: models.TransactionExpense, Amount: 0}, testMetadata())
	assert.True(t, IsAmountNotPositive(err))

	missingRequest := uint(99)
	_, err = flow.CreateTransaction(testCtx(), 1, &dto.CreateTransactionRequest{
		Direction: models.TransactionIncome,
		Amount:    100,
		RequestID: &missingRequest,
	}, testMetadata())
	assert.True(t, IsRequestNotFound(err))

	missingMaster := uint(99)
	_, err = flow.CreateTransaction(testCtx(), 1, &dto.CreateTransactionRequest{
		Direction: models.TransactionExpense,
		Amount:    100,
		MasterID:  &missingMaster,
	}, testMetadata())
	assert.True(t, IsMasterNotFound(err))
}

func TestListTransactionsFiltersAndPaginates(t *testing.T) {
	flow, transactionRepo, _, _ := newTestTransactionFlow()

	for i := 0; i < 3; i++ {
		require.NoError(t, transactionRepo.Save(testCtx(), &models.CashTransaction{
			Direction: models.TransactionIncome,
			Amount:    100,
			CreatedBy: 1,
		}))
	}
	require.NoError(t, transactionRepo.Save(testCtx(), &models.CashTransaction{
		Direction: models.TransactionExpense,
		Amount:    50,
		CreatedBy: 1,
	}))

	income := models.TransactionIncome
	resp, err := flow.ListTransactions(testCtx(), &dto.ListTransactionsRequest{
		Direction: &income,
		Page:      1,
		PageSize:  2,
	}, testMetadata())
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, int64(3), resp.Total)
}

func TestListTransactionsRejectsInvertedPeriod(t *testing.T) {
	flow, _, _, _ := newTestTransactionFlow()

	start := utils.UTCNow()
	end := start.Add(-time.Hour)

	_, err := flow.ListTransactions(testCtx(), &dto.ListTransactionsRequest{
		StartDate: &start,
		EndDate:   &end,
	}, testMetadata())
	assert.True(t, IsStartDateAfterEndDate(err))
}

func TestBalance(t *testing.T) {
	flow, transactionRepo, _, _ := newTestTransactionFlow()

	require.NoError(t, transactionRepo.Save(testCtx(), &models.CashTransaction{Direction: models.TransactionIncome, Amount: 12000, CreatedBy: 1}))
	require.NoError(t, transactionRepo.Save(testCtx(), &models.CashTransaction{Direction: models.TransactionIncome, Amount: 3000, CreatedBy: 1}))
	require.NoError(t, transactionRepo.Save(testCtx(), &models.CashTransaction{Direction: models.TransactionExpense, Amount: 4500, CreatedBy: 1}))

	resp, err := flow.Balance(testCtx(), &dto.ReportPeriodRequest{}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, 15000.0, resp.TotalIncome)
	assert.Equal(t, 4500.0, resp.TotalExpense)
	assert.Equal(t, 10500.0, resp.Balance)
}
