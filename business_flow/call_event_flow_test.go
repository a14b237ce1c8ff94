package businessflow

import (
	"sync"
	"testing"
	"time"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/config"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCallEventFlow(requestRepo *fakeRequestRepo, campaignRepo *fakeCampaignRepo) CallEventFlow {
	return NewCallEventFlow(
		requestRepo,
		campaignRepo,
		NewPhoneLockManager(nil, 0),
		nil,
		config.AdminConfig{},
		nil,
		30*time.Minute,
		nil,
	)
}

func inboundCallEvent(number string) *dto.CallEventRequest {
	return &dto.CallEventRequest{
		CallID:    "MToxMDA2NzAwOTow",
		CallState: "Appeared",
		From:      dto.CallEventPeer{Number: number},
		To:        dto.CallEventPeer{Number: "+74950000000", LineNumber: "79000000000"},
	}
}

func TestHandleCallEventCreatesRequest(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	resp, err := flow.HandleCallEvent(testCtx(), inboundCallEvent("+79001234567"), testMetadata())
	require.NoError(t, err)

	assert.True(t, resp.Created)
	assert.Equal(t, models.RequestTypeNewCaller, resp.RequestType)
	assert.NotZero(t, resp.RequestID)
	assert.NotEmpty(t, resp.RequestUUID)

	stored := requestRepo.all()
	require.Len(t, stored, 1)
	assert.Equal(t, "79001234567", stored[0].ClientPhone)
	assert.Equal(t, models.RequestStatusNew, stored[0].Status)
	assert.Nil(t, stored[0].AdvertisingCampaignID)
}

func TestHandleCallEventDeduplicatesWithinWindow(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	existing := requestRepo.add(&models.Request{
		ClientPhone: "79001234567",
		RequestType: models.RequestTypeNewCaller,
		Status:      models.RequestStatusNew,
		CreatedAt:   utils.UTCNow().Add(-10 * time.Minute),
	})

	resp, err := flow.HandleCallEvent(testCtx(), inboundCallEvent("8 (900) 123-45-67"), testMetadata())
	require.NoError(t, err)

	assert.False(t, resp.Created)
	assert.Equal(t, existing.ID, resp.RequestID)
	assert.Len(t, requestRepo.all(), 1)
}

func TestHandleCallEventClassifiesRepeatCaller(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	// Old request outside the dedup window still counts as history
	requestRepo.add(&models.Request{
		ClientPhone: "79001234567",
		RequestType: models.RequestTypeNewCaller,
		Status:      models.RequestStatusDone,
		CreatedAt:   utils.UTCNow().Add(-48 * time.Hour),
	})

	resp, err := flow.HandleCallEvent(testCtx(), inboundCallEvent("+79001234567"), testMetadata())
	require.NoError(t, err)

	assert.True(t, resp.Created)
	assert.Equal(t, models.RequestTypeRepeatCaller, resp.RequestType)
	assert.Len(t, requestRepo.all(), 2)
}

func TestHandleCallEventResolvesCampaign(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	campaignRepo := newFakeCampaignRepo()
	campaign := campaignRepo.add(&models.AdvertisingCampaign{
		Name:        "Spring promo",
		PhoneNumber: "79000000000",
	})

	flow := newTestCallEventFlow(requestRepo, campaignRepo)

	resp, err := flow.HandleCallEvent(testCtx(), inboundCallEvent("+79001234567"), testMetadata())
	require.NoError(t, err)
	require.True(t, resp.Created)

	stored := requestRepo.all()
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].AdvertisingCampaignID)
	assert.Equal(t, campaign.ID, *stored[0].AdvertisingCampaignID)
}

func TestHandleCallEventIgnoresOutbound(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	event := inboundCallEvent("+79001234567")
	event.From.Extension = "101"

	resp, err := flow.HandleCallEvent(testCtx(), event, testMetadata())
	require.NoError(t, err)

	assert.False(t, resp.Created)
	assert.Empty(t, requestRepo.all())
}

func TestHandleCallEventIgnoresNonActionableStates(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	for _, state := range []string{"Disconnected", "OnHold", ""} {
		event := inboundCallEvent("+79001234567")
		event.CallState = state

		resp, err := flow.HandleCallEvent(testCtx(), event, testMetadata())
		require.NoError(t, err)
		assert.False(t, resp.Created, "state %q should not create a request", state)
	}

	assert.Empty(t, requestRepo.all())
}

func TestHandleCallEventRejectsMissingCallerNumber(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	for _, number := range []string{"", "123", "anonymous"} {
		event := inboundCallEvent(number)

		resp, err := flow.HandleCallEvent(testCtx(), event, testMetadata())
		require.Error(t, err)
		assert.True(t, IsMissingCallerNumber(err))
		assert.Nil(t, resp)
	}

	assert.Empty(t, requestRepo.all())
}

func TestHandleCallEventConcurrentDeliveriesInsertOnce(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	flow := newTestCallEventFlow(requestRepo, newFakeCampaignRepo())

	const deliveries = 10
	var wg sync.WaitGroup
	created := make(chan bool, deliveries)

	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := flow.HandleCallEvent(testCtx(), inboundCallEvent("+79001234567"), testMetadata())
			if err == nil {
				created <- resp.Created
			}
		}()
	}
	wg.Wait()
	close(created)

	createdCount := 0
	for wasCreated := range created {
		if wasCreated {
			createdCount++
		}
	}

	assert.Equal(t, 1, createdCount)
	assert.Len(t, requestRepo.all(), 1)
}
