package businessflow

import (
	"testing"

	"github.com/calldesk-crm/calldesk/app/dto"
	"github.com/calldesk-crm/calldesk/models"
	"github.com/calldesk-crm/calldesk/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCampaignNormalizesPhone(t *testing.T) {
	campaignRepo := newFakeCampaignRepo()
	flow := NewCampaignFlow(campaignRepo)

	resp, err := flow.CreateCampaign(testCtx(), &dto.CreateCampaignRequest{
		Name:        "  Avito spring  ",
		PhoneNumber: "+7 (900) 000-00-00",
	}, testMetadata())
	require.NoError(t, err)
	assert.NotZero(t, resp.ID)

	stored, err := campaignRepo.ByID(testCtx(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Avito spring", stored.Name)
	assert.Equal(t, "79000000000", stored.PhoneNumber)
}

func TestCreateCampaignRejectsInvalidInput(t *testing.T) {
	flow := NewCampaignFlow(newFakeCampaignRepo())

	_, err := flow.CreateCampaign(testCtx(), &dto.CreateCampaignRequest{Name: "   ", PhoneNumber: "+79000000000"}, testMetadata())
	assert.Error(t, err)

	_, err = flow.CreateCampaign(testCtx(), &dto.CreateCampaignRequest{Name: "Promo", PhoneNumber: "12345"}, testMetadata())
	assert.True(t, IsCampaignPhoneInvalid(err))
}

func TestCreateCampaignRejectsDuplicatePhone(t *testing.T) {
	campaignRepo := newFakeCampaignRepo()
	campaignRepo.add(&models.AdvertisingCampaign{Name: "Existing", PhoneNumber: "79000000000"})

	flow := NewCampaignFlow(campaignRepo)

	// Different formatting of the same number still collides
	_, err := flow.CreateCampaign(testCtx(), &dto.CreateCampaignRequest{
		Name:        "New",
		PhoneNumber: "8 (900) 000-00-00",
	}, testMetadata())
	assert.True(t, IsCampaignPhoneExists(err))
}

func TestListCampaignsActiveOnly(t *testing.T) {
	campaignRepo := newFakeCampaignRepo()
	campaignRepo.add(&models.AdvertisingCampaign{Name: "Active", PhoneNumber: "79000000001", IsActive: utils.ToPtr(true)})
	campaignRepo.add(&models.AdvertisingCampaign{Name: "Retired", PhoneNumber: "79000000002", IsActive: utils.ToPtr(false)})

	flow := NewCampaignFlow(campaignRepo)

	all, err := flow.ListCampaigns(testCtx(), false, testMetadata())
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	active, err := flow.ListCampaigns(testCtx(), true, testMetadata())
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, "Active", active.Items[0].Name)
}
