package businessflow

import (
	"testing"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRequestManually(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := NewRequestFlow(requestRepo, newFakeMasterRepo())

	resp, err := flow.CreateRequest(testCtx(), &dto.CreateRequestRequest{
		ClientPhone: "8 (900) 123-45-67",
		ClientName:  utils.ToPtr("  Ivan Petrov  "),
		Comment:     utils.ToPtr("Washing machine leaks"),
	}, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, models.RequestTypeNewCaller, resp.RequestType)

	stored := requestRepo.all()
	require.Len(t, stored, 1)
	assert.Equal(t, "79001234567", stored[0].ClientPhone)
	require.NotNil(t, stored[0].ClientName)
	assert.Equal(t, "Ivan Petrov", *stored[0].ClientName)
	assert.Equal(t, models.RequestStatusNew, stored[0].Status)
}

func TestCreateRequestClassifiesByHistory(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusDone})

	flow := NewRequestFlow(requestRepo, newFakeMasterRepo())

	resp, err := flow.CreateRequest(testCtx(), &dto.CreateRequestRequest{ClientPhone: "+79001234567"}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, models.RequestTypeRepeatCaller, resp.RequestType)
}

func TestCreateRequestRejectsMalformedPhone(t *testing.T) {
	flow := NewRequestFlow(newFakeRequestRepo(), newFakeMasterRepo())

	_, err := flow.CreateRequest(testCtx(), &dto.CreateRequestRequest{ClientPhone: "12345"}, testMetadata())
	assert.Error(t, err)
}

func TestGetRequestByUUID(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew, RequestType: models.RequestTypeNewCaller})

	flow := NewRequestFlow(requestRepo, newFakeMasterRepo())

	item, err := flow.GetRequest(testCtx(), req.UUID.String(), testMetadata())
	require.NoError(t, err)
	assert.Equal(t, req.ID, item.ID)
	assert.Equal(t, "79001234567", item.ClientPhone)

	_, err = flow.GetRequest(testCtx(), "550e8400-e29b-41d4-a716-446655440000", testMetadata())
	assert.True(t, IsRequestNotFound(err))
}

func TestUpdateStatus(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew})

	flow := NewRequestFlow(requestRepo, newFakeMasterRepo())

	_, err := flow.UpdateStatus(testCtx(), req.ID, &dto.UpdateRequestStatusRequest{Status: models.RequestStatusInProgress}, testMetadata())
	require.NoError(t, err)

	stored, err := requestRepo.ByID(testCtx(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusInProgress, stored.Status)

	_, err = flow.UpdateStatus(testCtx(), req.ID, &dto.UpdateRequestStatusRequest{Status: "archived"}, testMetadata())
	assert.True(t, IsInvalidStatus(err))

	_, err = flow.UpdateStatus(testCtx(), 999, &dto.UpdateRequestStatusRequest{Status: models.RequestStatusDone}, testMetadata())
	assert.True(t, IsRequestNotFound(err))
}

func TestAssignMaster(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	masterRepo := newFakeMasterRepo()
	req := requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew})
	master := masterRepo.add(&models.Master{FullName: "Ivan Petrov", Phone: "79007654321", IsActive: utils.ToPtr(true)})
	inactive := masterRepo.add(&models.Master{FullName: "Retired", Phone: "79007654322", IsActive: utils.ToPtr(false)})

	flow := NewRequestFlow(requestRepo, masterRepo)

	_, err := flow.AssignMaster(testCtx(), req.ID, &dto.AssignMasterRequest{MasterID: &master.ID}, testMetadata())
	require.NoError(t, err)

	stored, err := requestRepo.ByID(testCtx(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MasterID)
	assert.Equal(t, master.ID, *stored.MasterID)

	_, err = flow.AssignMaster(testCtx(), req.ID, &dto.AssignMasterRequest{MasterID: &inactive.ID}, testMetadata())
	assert.True(t, IsMasterInactive(err))

	missing := uint(999)
	_, err = flow.AssignMaster(testCtx(), req.ID, &dto.AssignMasterRequest{MasterID: &missing}, testMetadata())
	assert.True(t, IsMasterNotFound(err))

	// Clearing the assignment
	_, err = flow.AssignMaster(testCtx(), req.ID, &dto.AssignMasterRequest{MasterID: nil}, testMetadata())
	require.NoError(t, err)
	stored, err = requestRepo.ByID(testCtx(), req.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.MasterID)
}

func TestListRequestsFilters(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	requestRepo.add(&models.Request{ClientPhone: "79001234567", Status: models.RequestStatusNew, RequestType: models.RequestTypeNewCaller})
	requestRepo.add(&models.Request{ClientPhone: "79001234568", Status: models.RequestStatusDone, RequestType: models.RequestTypeRepeatCaller})

	flow := NewRequestFlow(requestRepo, newFakeMasterRepo())

	status := models.RequestStatusDone
	resp, err := flow.ListRequests(testCtx(), &dto.ListRequestsRequest{Status: &status}, testMetadata())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "79001234568", resp.Items[0].ClientPhone)
	assert.Equal(t, int64(1), resp.Total)

	// Phone filter accepts any formatting
	phone := "+7 900 123 45 67"
	resp, err = flow.ListRequests(testCtx(), &dto.ListRequestsRequest{ClientPhone: &phone}, testMetadata())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "79001234567", resp.Items[0].ClientPhone)
}
